package models

// Member roles as stored in the Tipo column.
const (
	TipoAdmin       = "admin"
	TipoColaborador = "colaborador"
)

// Lifecycle statuses as stored in the Status column.
const (
	StatusAtivo      = "ativo"
	StatusInativo    = "inativo"
	StatusDesativado = "desativado"
)

// Member is one row of the Usuarios sheet, keyed by CPF.
type Member struct {
	CPF           string `json:"cpf"`
	PasswordHash  string `json:"-"` // Never serialize in JSON
	Nome          string `json:"nome"`
	Telefone      string `json:"telefone"`
	Email         string `json:"email"`
	Empresa       string `json:"empresa"`
	Tipo          string `json:"tipo"`
	Status        string `json:"status"`
	DataValidade  string `json:"dataValidade"`  // MM/YYYY
	DataPagamento string `json:"dataPagamento"` // DD/MM/YYYY
	IsDependente  bool   `json:"isDependente"`
	TitularCPF    string `json:"titularCpf"`
}

// MemberPatch carries a partial update; nil fields keep the stored value.
type MemberPatch struct {
	Senha         *string `json:"senha"`
	Nome          *string `json:"nome"`
	Telefone      *string `json:"telefone"`
	Email         *string `json:"email"`
	Empresa       *string `json:"empresa"`
	Tipo          *string `json:"tipo"`
	Status        *string `json:"status"`
	DataValidade  *string `json:"dataValidade"`
	DataPagamento *string `json:"dataPagamento"`
	IsDependente  *bool   `json:"isDependente"`
	TitularCPF    *string `json:"titularCpf"`
}
