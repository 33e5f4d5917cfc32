package models

// WaiterCall is a transient summon signal. The store keys calls by table
// number, so a table has at most one outstanding call; a repeat call
// overwrites the timestamp and target rather than queueing.
type WaiterCall struct {
	TableNumber string `json:"tableNumber"`
	WaiterID    string `json:"waiterId"`
	Timestamp   int64  `json:"timestamp"` // milliseconds since epoch
}
