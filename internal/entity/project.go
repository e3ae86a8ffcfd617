package entity

import "strings"

type StructureType string

const (
	StructureGarage          StructureType = "garage"
	StructureShed            StructureType = "shed"
	StructureDeck            StructureType = "deck"
	StructureAddition        StructureType = "addition"
	StructureNewConstruction StructureType = "new_construction"
	StructureRenovation      StructureType = "renovation"
	StructureFence           StructureType = "fence"
	StructurePool            StructureType = "pool"
	StructureWorkshop        StructureType = "workshop"
	StructureOther           StructureType = "other"
)

type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
	PropertyIndustrial  PropertyType = "industrial"
)

// Dimensions are in feet. Ranges are not validated.
type Dimensions struct {
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

type Materials struct {
	Exterior   string `json:"exterior,omitempty"`
	Roofing    string `json:"roofing,omitempty"`
	Foundation string `json:"foundation,omitempty"`
}

// ProjectInput is the user's project description. It is replaced wholesale on every submission.
type ProjectInput struct {
	Description   string        `json:"description" validate:"required"`
	Address       string        `json:"address,omitempty"`
	ParcelID      string        `json:"parcel_id,omitempty"`
	StructureType StructureType `json:"structure_type" validate:"required,oneof=garage shed deck addition new_construction renovation fence pool workshop other"`
	PropertyType  PropertyType  `json:"property_type" validate:"required,oneof=residential commercial industrial"`
	Dimensions    Dimensions    `json:"dimensions"`
	LocationOnLot string        `json:"location_on_lot,omitempty"`
	Materials     Materials     `json:"materials"`
}

// Normalize trims free text and fills the enum defaults used when a form leaves them blank.
func (p *ProjectInput) Normalize() {
	p.Description = strings.TrimSpace(p.Description)
	p.Address = strings.TrimSpace(p.Address)
	p.ParcelID = strings.TrimSpace(p.ParcelID)
	p.LocationOnLot = strings.TrimSpace(p.LocationOnLot)

	if p.StructureType == "" {
		p.StructureType = StructureGarage
	}
	if p.PropertyType == "" {
		p.PropertyType = PropertyResidential
	}
}

// Clone returns a deep copy so snapshots never share dimension pointers with the live state.
func (p *ProjectInput) Clone() *ProjectInput {
	if p == nil {
		return nil
	}
	c := *p
	c.Dimensions = Dimensions{
		Length: cloneFloat(p.Dimensions.Length),
		Width:  cloneFloat(p.Dimensions.Width),
		Height: cloneFloat(p.Dimensions.Height),
	}
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
