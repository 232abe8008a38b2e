package models

import "time"

type SiteConfig struct {
	ID                int64     `json:"id"`
	StoreName         string    `json:"store_name"`
	Logo              *string   `json:"logo"`
	PrimaryColor      string    `json:"primary_color"`
	SecondaryColor    string    `json:"secondary_color"`
	ContactEmail      string    `json:"contact_email"`
	ContactPhone      string    `json:"contact_phone"`
	WhatsappNumber    string    `json:"whatsapp_number"`
	AddressText       string    `json:"address_text"`
	DeliveryZonesText string    `json:"delivery_zones_text"`
	MinOrderAmount    string    `json:"min_order_amount"`
	IsMaintenanceMode bool      `json:"is_maintenance_mode"`
	UpdatedAt         time.Time `json:"updated_at"`
}
