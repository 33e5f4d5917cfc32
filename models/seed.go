package models

// InitialWaiters seeds the roster the first time the system starts against
// an empty store.
var InitialWaiters = []string{
	"Carlos Rivas",
	"Ana Fuentes",
	"Luis Jimenez",
	"Sofia Gomez",
	"Pedro Castillo",
}

// InitialTableAssignments seeds the table→waiter map on first run. An empty
// string means the table is unassigned; unassigned tables cannot take
// orders until a cashier assigns a waiter. Entries are nulled on waiter
// removal but never deleted.
var InitialTableAssignments = map[string]string{
	"1":  "Carlos Rivas",
	"2":  "Ana Fuentes",
	"3":  "Luis Jimenez",
	"4":  "Carlos Rivas",
	"5":  "Sofia Gomez",
	"6":  "Ana Fuentes",
	"7":  "Pedro Castillo",
	"8":  "Sofia Gomez",
	"9":  "Luis Jimenez",
	"10": "Pedro Castillo",
	"11": "Carlos Rivas",
	"12": "Ana Fuentes",
	"13": "",
	"14": "Sofia Gomez",
	"15": "Pedro Castillo",
	"16": "",
	"17": "",
	"18": "Luis Jimenez",
	"19": "Carlos Rivas",
	"20": "Ana Fuentes",
}
