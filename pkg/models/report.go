package models

type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type MechanicCount struct {
	MechanicID string `json:"mechanicId"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

type Report struct {
	ByStatus      map[RequestStatus]int `json:"byStatus"`
	ByProblemType []Count               `json:"byProblemType"`
	ByMechanic    []MechanicCount       `json:"byMechanic"`
	Mechanics     int                   `json:"mechanics"`
	Drivers       int                   `json:"drivers"`
	Recent        []*AssistanceRequest  `json:"recent"`
}
