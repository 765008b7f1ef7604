package types

// AssetType classifies the collateral/purpose of a deal. The zero value means
// the deal never declared one.
type AssetType string

const (
	AssetTypeUnknown             AssetType = ""
	AssetTypeCommercialRE        AssetType = "commercial_re"
	AssetTypeResidentialRE       AssetType = "residential_re"
	AssetTypeEquipment           AssetType = "equipment"
	AssetTypeBusinessAcquisition AssetType = "business_acquisition"
	AssetTypeWorkingCapital      AssetType = "working_capital"
	AssetTypeLandDevelopment     AssetType = "land_development"
)

func (a AssetType) Known() bool {
	return a != AssetTypeUnknown
}
