package model

// Building owns the time zone of every room it contains.
type Building struct {
	ID      int64
	Address string
	TZName  string
}

type Room struct {
	Code       string
	Name       string
	Floor      int
	Capacity   *int
	BuildingID int64
	Building   Building
}
