package model

// StatusCount is the registry total for one equipment status.
type StatusCount struct {
	Status         EquipmentStatus `json:"status"`
	EquipmentCount int             `json:"equipment_count"`
	TotalQuantity  int             `json:"total_quantity"`
}

// TypeSummary splits one equipment type's rows by status.
type TypeSummary struct {
	TypeName      string `json:"type_name"`
	Total         int    `json:"total"`
	TotalQuantity int    `json:"total_quantity"`
	Active        int    `json:"active"`
	Repair        int    `json:"repair"`
	Broken        int    `json:"broken"`
	WrittenOff    int    `json:"written_off"`
}

// Overview holds the dashboard counters.
type Overview struct {
	Equipment     int `json:"equipment"`
	TotalQuantity int `json:"total_quantity"`
	Rooms         int `json:"rooms"`
	Types         int `json:"types"`
	Unassigned    int `json:"unassigned"`
	OpenSessions  int `json:"open_sessions"`
}
