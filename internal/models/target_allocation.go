package models

// TargetAllocation stores one row per user and asset class holding the
// desired allocation percentage. Rows for a user are read together into
// an allocation vector; percentages are not required to sum to exactly 100.
type TargetAllocation struct {
	Base
	UserID     uint       `gorm:"not null;uniqueIndex:uq_target_user_asset" json:"user_id"`
	AssetClass AssetClass `gorm:"not null;uniqueIndex:uq_target_user_asset" json:"asset_class"`
	Percent    float64    `gorm:"not null" json:"percent"`
}
