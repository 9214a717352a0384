package types

// Header is the subset of a chain block header the light client consumes.
type Header struct {
	Number         uint64 `json:"number"`
	ParentHash     Hash   `json:"parentHash"`
	StateRoot      Hash   `json:"stateRoot"`
	ExtrinsicsRoot Hash   `json:"extrinsicsRoot"`
}
