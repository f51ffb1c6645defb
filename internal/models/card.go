package models

// Card kinds as presented on the membership card.
const (
	CardTitular    = "titular"
	CardDependente = "dependente"
)

// DependentCard is the card block rendered for one dependent.
type DependentCard struct {
	Nome     string `json:"nome"`
	CPF      string `json:"cpf"`
	Registro string `json:"registro"`
	Validade string `json:"validade"`
}

// CardPayload is the presentation-ready membership card. It is derived from
// the member record on every read and never persisted.
type CardPayload struct {
	Nome        string          `json:"nome"`
	CPF         string          `json:"cpf"`
	Registro    string          `json:"registro"`
	Validade    string          `json:"validade"`
	Tipo        string          `json:"tipo"`
	TitularNome string          `json:"titularNome"`
	Dependentes []DependentCard `json:"dependentes"`
}
