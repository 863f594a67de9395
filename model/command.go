package model

// SpawnCommand is one placement the match server should execute. Count is
// the number of units paid for at Coord.
type SpawnCommand struct {
	Kind  UnitKind   `json:"kind"`
	Coord Coordinate `json:"coord"`
	Count int        `json:"count"`
}
