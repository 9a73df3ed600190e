package domain

// MenuItem is a catalog entry. Orders never reference it directly; they keep
// their own name/price snapshots.
type MenuItem struct {
	ID          int
	Name        string
	Description string
	Price       float64
	Category    string
}
