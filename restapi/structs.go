package restapi

type Kinds struct {
	Kinds    []KindInfo `json:"kinds"`
	Palettes []string   `json:"palettes"`
}

type KindInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
