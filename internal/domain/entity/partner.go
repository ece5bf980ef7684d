package entity

import "time"

// Supplier proveedor de mercancía (origen de los GRN).
type Supplier struct {
	ID        string
	Name      string
	TaxID     string
	Phone     string
	Email     string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Godown bodega central donde se recibe el stock.
type Godown struct {
	ID        string
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MedicalRep representante médico de campo; también es una ubicación de stock (tipo MR).
type MedicalRep struct {
	ID        string
	Name      string
	Phone     string
	Territory string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
