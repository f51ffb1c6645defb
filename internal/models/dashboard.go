package models

// PendingPayment identifies an active colaborador whose last payment is
// older than one calendar month.
type PendingPayment struct {
	Nome          string `json:"nome"`
	CPF           string `json:"cpf"`
	DataPagamento string `json:"dataPagamento"`
}

// DashboardMetrics is the admin dashboard aggregate.
type DashboardMetrics struct {
	Ativos              int              `json:"ativos"`
	Inativos            int              `json:"inativos"`
	Desativados         int              `json:"desativados"`
	PagamentosPendentes []PendingPayment `json:"pagamentosPendentes"`
	UltimosAcessos      []*AccessEntry   `json:"ultimosAcessos"`
}
