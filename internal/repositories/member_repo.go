package repositories

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"auraportal/internal/caching"
	"auraportal/internal/models"
	"auraportal/internal/sheets"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrDuplicateCPF   = errors.New("cpf already registered")
)

// How long the full member list is served from Redis before the sheet is
// re-read. Writes invalidate immediately.
const memberRowsTTL = 30 * time.Second

// Column positions inside the A2:L range.
const (
	colCPF = iota
	colSenha
	colNome
	colTelefone
	colEmail
	colEmpresa
	colTipo
	colStatus
	colDataValidade
	colDataPagamento
	colIsDependente
	colTitularCPF
)

// senhaColumn is the sheet column letter for the password cell.
const senhaColumn = "B"

type MemberRepository interface {
	FindByCPF(ctx context.Context, cpf string) (*models.Member, error)
	List(ctx context.Context) ([]*models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, cpf string, patch *models.MemberPatch) (*models.Member, error)
	UpdatePassword(ctx context.Context, cpf, passwordHash string) error
}

type memberRepo struct {
	sheet sheets.Client
	cache caching.CacheService
}

func NewMemberRepo(sheet sheets.Client, cache caching.CacheService) MemberRepository {
	return &memberRepo{sheet: sheet, cache: cache}
}

// memberFromRow decodes one positional row. Missing trailing cells fall back
// to the defaults the sheet has always implied.
func memberFromRow(row []string) *models.Member {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	tipo := cell(colTipo)
	if tipo == "" {
		tipo = models.TipoColaborador
	}
	status := cell(colStatus)
	if status == "" {
		status = models.StatusAtivo
	}

	return &models.Member{
		CPF:           cell(colCPF),
		PasswordHash:  cell(colSenha),
		Nome:          cell(colNome),
		Telefone:      cell(colTelefone),
		Email:         cell(colEmail),
		Empresa:       cell(colEmpresa),
		Tipo:          tipo,
		Status:        status,
		DataValidade:  cell(colDataValidade),
		DataPagamento: cell(colDataPagamento),
		IsDependente:  strings.EqualFold(cell(colIsDependente), "true"),
		TitularCPF:    cell(colTitularCPF),
	}
}

func rowFromMember(m *models.Member) []string {
	dependente := "false"
	if m.IsDependente {
		dependente = "true"
	}
	return []string{
		m.CPF,
		m.PasswordHash,
		m.Nome,
		m.Telefone,
		m.Email,
		m.Empresa,
		m.Tipo,
		m.Status,
		m.DataValidade,
		m.DataPagamento,
		dependente,
		m.TitularCPF,
	}
}

// loadRows serves the sheet rows from cache when possible. Cache failures
// degrade to a direct sheet read.
func (r *memberRepo) loadRows(ctx context.Context) ([][]string, error) {
	if cached, err := r.cache.GetMemberRows(ctx); err != nil {
		log.Printf("WARN: member rows cache read failed: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	rows, err := r.sheet.GetRows(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetMemberRows(ctx, rows, memberRowsTTL); err != nil {
		log.Printf("WARN: member rows cache write failed: %v", err)
	}
	return rows, nil
}

func (r *memberRepo) invalidate(ctx context.Context) {
	if err := r.cache.InvalidateMemberRows(ctx); err != nil {
		log.Printf("WARN: member rows cache invalidation failed: %v", err)
	}
}

func (r *memberRepo) FindByCPF(ctx context.Context, cpf string) (*models.Member, error) {
	rows, err := r.loadRows(ctx)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if len(row) > colCPF && strings.TrimSpace(row[colCPF]) == cpf {
			return memberFromRow(row), nil
		}
	}
	return nil, nil
}

func (r *memberRepo) List(ctx context.Context) ([]*models.Member, error) {
	rows, err := r.loadRows(ctx)
	if err != nil {
		return nil, err
	}

	members := make([]*models.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, memberFromRow(row))
	}
	return members, nil
}

func (r *memberRepo) Create(ctx context.Context, member *models.Member) error {
	// The sheet has no uniqueness constraint, so the duplicate check is a
	// read-then-append over a fresh read. Two concurrent creates can still
	// race; the store layer cannot prevent that.
	rows, err := r.sheet.GetRows(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if len(row) > colCPF && strings.TrimSpace(row[colCPF]) == member.CPF {
			return ErrDuplicateCPF
		}
	}

	if err := r.sheet.AppendRow(ctx, rowFromMember(member)); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *memberRepo) Update(ctx context.Context, cpf string, patch *models.MemberPatch) (*models.Member, error) {
	rows, err := r.sheet.GetRows(ctx)
	if err != nil {
		return nil, err
	}

	rowIndex := -1
	for i, row := range rows {
		if len(row) > colCPF && strings.TrimSpace(row[colCPF]) == cpf {
			rowIndex = i
			break
		}
	}
	if rowIndex == -1 {
		return nil, ErrMemberNotFound
	}

	member := memberFromRow(rows[rowIndex])
	applyPatch(member, patch)

	if err := r.sheet.UpdateRow(ctx, rowIndex, rowFromMember(member)); err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return member, nil
}

func (r *memberRepo) UpdatePassword(ctx context.Context, cpf, passwordHash string) error {
	rows, err := r.sheet.GetRows(ctx)
	if err != nil {
		return err
	}

	rowIndex := -1
	for i, row := range rows {
		if len(row) > colCPF && strings.TrimSpace(row[colCPF]) == cpf {
			rowIndex = i
			break
		}
	}
	if rowIndex == -1 {
		return ErrMemberNotFound
	}

	if err := r.sheet.UpdateCell(ctx, rowIndex, senhaColumn, passwordHash); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// applyPatch keeps stored values for absent fields. Senha arrives already
// hashed from the service layer.
func applyPatch(member *models.Member, patch *models.MemberPatch) {
	if patch == nil {
		return
	}
	if patch.Senha != nil {
		member.PasswordHash = *patch.Senha
	}
	if patch.Nome != nil {
		member.Nome = *patch.Nome
	}
	if patch.Telefone != nil {
		member.Telefone = *patch.Telefone
	}
	if patch.Email != nil {
		member.Email = *patch.Email
	}
	if patch.Empresa != nil {
		member.Empresa = *patch.Empresa
	}
	if patch.Tipo != nil {
		member.Tipo = *patch.Tipo
	}
	if patch.Status != nil {
		member.Status = *patch.Status
	}
	if patch.DataValidade != nil {
		member.DataValidade = *patch.DataValidade
	}
	if patch.DataPagamento != nil {
		member.DataPagamento = *patch.DataPagamento
	}
	if patch.IsDependente != nil {
		member.IsDependente = *patch.IsDependente
	}
	if patch.TitularCPF != nil {
		member.TitularCPF = *patch.TitularCPF
	}
}
