package models

type ProductImage struct {
	ID     int64  `json:"id"`
	Image  string `json:"image"`
	IsMain bool   `json:"is_main"`
	Order  int    `json:"order"`
}
