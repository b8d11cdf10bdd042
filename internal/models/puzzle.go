package models

// Puzzle is one catalog entry: a secret name, its author and the image that is
// shown to the channel.
type Puzzle struct {
	Rank       uint32 `json:"rank"`
	SecretName string `json:"name"`
	Author     string `json:"author"`
	AssetRef   string `json:"asset"`
}
