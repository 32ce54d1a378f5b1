package models

type ProblemType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultProblemTypes is the catalog installed on a fresh database.
var DefaultProblemTypes = []ProblemType{
	{Name: "Pneu furado", Description: "Problema com pneu furado ou danificado"},
	{Name: "Motor não liga", Description: "Problemas para dar partida no motor"},
	{Name: "Bateria descarregada", Description: "Bateria sem carga ou com problemas"},
	{Name: "Superaquecimento", Description: "Motor superaquecendo"},
	{Name: "Problema elétrico", Description: "Problemas com o sistema elétrico do veículo"},
	{Name: "Problema de freios", Description: "Problemas com o sistema de freios"},
	{Name: "Problema de transmissão", Description: "Problemas com a transmissão do veículo"},
	{Name: "Outro", Description: "Outros problemas não listados"},
}
