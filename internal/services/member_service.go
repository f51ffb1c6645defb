package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"auraportal/internal/caching"
	"auraportal/internal/common"
	"auraportal/internal/models"
	"auraportal/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// How many access log entries the dashboard shows, and how long the
// aggregate is served from cache before a recompute.
const (
	recentAccessLimit = 10
	dashboardTTL      = 5 * time.Minute
)

// CreateMemberInput is the admin create payload with a plaintext password.
type CreateMemberInput struct {
	CPF           string `json:"cpf"`
	Senha         string `json:"senha"`
	Nome          string `json:"nome"`
	Telefone      string `json:"telefone"`
	Email         string `json:"email"`
	Empresa       string `json:"empresa"`
	Tipo          string `json:"tipo"`
	Status        string `json:"status"`
	DataValidade  string `json:"dataValidade"`
	DataPagamento string `json:"dataPagamento"`
	IsDependente  bool   `json:"isDependente"`
	TitularCPF    string `json:"titularCpf"`
}

// MemberService covers the admin record manager and the dashboard aggregate.
type MemberService interface {
	ListMembers(ctx context.Context) ([]*models.Member, error)
	CreateMember(ctx context.Context, actor *models.Member, input *CreateMemberInput) (*models.Member, error)
	UpdateMember(ctx context.Context, actor *models.Member, cpf string, patch *models.MemberPatch) (*models.Member, error)
	Dashboard(ctx context.Context) (*models.DashboardMetrics, error)
	RefreshDashboard(ctx context.Context) (*models.DashboardMetrics, error)
}

type memberService struct {
	memberRepo repositories.MemberRepository
	accessLog  repositories.AccessLogRepository
	cacheSvc   caching.CacheService
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repositories.MemberRepository, accessLog repositories.AccessLogRepository, cacheSvc caching.CacheService) MemberService {
	return &memberService{
		memberRepo: memberRepo,
		accessLog:  accessLog,
		cacheSvc:   cacheSvc,
	}
}

// ListMembers returns all records. Password hashes never leave the struct's
// json:"-" field, so the HTTP layer serializes them stripped.
func (s *memberService) ListMembers(ctx context.Context) ([]*models.Member, error) {
	return s.memberRepo.List(ctx)
}

func (s *memberService) CreateMember(ctx context.Context, actor *models.Member, input *CreateMemberInput) (*models.Member, error) {
	cpf, err := common.ValidateCPF(input.CPF, "cpf")
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(input.Senha, "senha"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(input.Nome, "nome"); err != nil {
		return nil, err
	}

	tipo := input.Tipo
	if tipo == "" {
		tipo = models.TipoColaborador
	}
	if err := common.ValidateTipo(tipo); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.StatusAtivo
	}
	if err := common.ValidateStatus(status); err != nil {
		return nil, err
	}

	titularCPF := common.NormalizeCPF(input.TitularCPF)
	if input.IsDependente {
		// The holder reference is advisory only; a broken link degrades to
		// an empty holder name on the card.
		holder, err := s.memberRepo.FindByCPF(ctx, titularCPF)
		if err == nil && (holder == nil || holder.IsDependente) {
			log.Printf("WARN: dependent %s references holder %s which is missing or itself a dependent", cpf, titularCPF)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := &models.Member{
		CPF:           cpf,
		PasswordHash:  string(hashed),
		Nome:          input.Nome,
		Telefone:      input.Telefone,
		Email:         input.Email,
		Empresa:       input.Empresa,
		Tipo:          tipo,
		Status:        status,
		DataValidade:  input.DataValidade,
		DataPagamento: input.DataPagamento,
		IsDependente:  input.IsDependente,
		TitularCPF:    titularCPF,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.recordAdminAction(ctx, actor, models.AccessCreateMember)
	return member, nil
}

func (s *memberService) UpdateMember(ctx context.Context, actor *models.Member, cpf string, patch *models.MemberPatch) (*models.Member, error) {
	if patch.Tipo != nil {
		if err := common.ValidateTipo(*patch.Tipo); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil {
		if err := common.ValidateStatus(*patch.Status); err != nil {
			return nil, err
		}
	}
	if patch.Senha != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Senha), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hashed)
		patch.Senha = &h
	}

	member, err := s.memberRepo.Update(ctx, cpf, patch)
	if err != nil {
		return nil, err
	}

	s.recordAdminAction(ctx, actor, models.AccessUpdateMember)
	return member, nil
}

// Dashboard serves the aggregate from cache, recomputing on a miss.
func (s *memberService) Dashboard(ctx context.Context) (*models.DashboardMetrics, error) {
	if cached, err := s.cacheSvc.GetDashboard(ctx); err != nil {
		log.Printf("WARN: dashboard cache read failed: %v", err)
	} else if cached != nil {
		return cached, nil
	}
	return s.RefreshDashboard(ctx)
}

// RefreshDashboard recomputes the aggregate and refreshes the cache. The
// background scheduler calls this on an interval.
func (s *memberService) RefreshDashboard(ctx context.Context) (*models.DashboardMetrics, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	metrics := ComputeMetrics(members, time.Now())

	acessos, err := s.accessLog.Recent(ctx, recentAccessLimit)
	if err != nil {
		log.Printf("WARN: failed to load recent accesses: %v", err)
		acessos = []*models.AccessEntry{}
	}
	if acessos == nil {
		acessos = []*models.AccessEntry{}
	}
	metrics.UltimosAcessos = acessos

	if err := s.cacheSvc.SetDashboard(ctx, metrics, dashboardTTL); err != nil {
		log.Printf("WARN: dashboard cache write failed: %v", err)
	}
	return metrics, nil
}

// ComputeMetrics aggregates status counts and overdue payments over the full
// record set.
func ComputeMetrics(members []*models.Member, now time.Time) *models.DashboardMetrics {
	metrics := &models.DashboardMetrics{
		PagamentosPendentes: []models.PendingPayment{},
		UltimosAcessos:      []*models.AccessEntry{},
	}

	for _, m := range members {
		if m.Tipo != models.TipoColaborador {
			continue
		}
		switch m.Status {
		case models.StatusAtivo:
			metrics.Ativos++
		case models.StatusInativo:
			metrics.Inativos++
		case models.StatusDesativado:
			metrics.Desativados++
		}

		if PaymentOverdue(m, now) {
			metrics.PagamentosPendentes = append(metrics.PagamentosPendentes, models.PendingPayment{
				Nome:          m.Nome,
				CPF:           m.CPF,
				DataPagamento: m.DataPagamento,
			})
		}
	}
	return metrics
}

// PaymentOverdue reports whether an active colaborador's last payment is
// strictly earlier than one calendar month before now.
func PaymentOverdue(m *models.Member, now time.Time) bool {
	if m.Tipo != models.TipoColaborador || m.Status != models.StatusAtivo || m.DataPagamento == "" {
		return false
	}
	paid, err := common.ParsePaymentDate(m.DataPagamento)
	if err != nil {
		return false
	}
	cutoff := now.AddDate(0, -1, 0)
	return paid.Before(cutoff)
}

func (s *memberService) recordAdminAction(ctx context.Context, actor *models.Member, action string) {
	if actor == nil {
		return
	}
	entry := &models.AccessEntry{
		CPF:    actor.CPF,
		Nome:   actor.Nome,
		Action: action,
	}
	if err := s.accessLog.Record(ctx, entry); err != nil {
		log.Printf("WARN: failed to record %s by %s: %v", action, actor.CPF, err)
	}
}
