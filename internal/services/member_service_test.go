package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"auraportal/internal/models"
	"auraportal/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type MemberServiceTestSuite struct {
	suite.Suite
	memberRepo *MockMemberRepository
	accessLog  *MockAccessLogRepository
	cacheSvc   *MockCacheService
	svc        MemberService
	ctx        context.Context
	admin      *models.Member
}

func (suite *MemberServiceTestSuite) SetupTest() {
	suite.memberRepo = new(MockMemberRepository)
	suite.accessLog = new(MockAccessLogRepository)
	suite.cacheSvc = new(MockCacheService)
	suite.svc = NewMemberService(suite.memberRepo, suite.accessLog, suite.cacheSvc)
	suite.ctx = context.Background()
	suite.admin = &models.Member{CPF: "00000000000", Nome: "Admin", Tipo: models.TipoAdmin}
}

func TestMemberServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MemberServiceTestSuite))
}

func (suite *MemberServiceTestSuite) TestCreateMember_HashesPassword() {
	suite.memberRepo.On("Create", suite.ctx, mock.MatchedBy(func(m *models.Member) bool {
		return m.CPF == "12345678900" &&
			bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte("senha123")) == nil
	})).Return(nil)
	suite.accessLog.On("Record", suite.ctx, mock.Anything).Return(nil)

	member, err := suite.svc.CreateMember(suite.ctx, suite.admin, &CreateMemberInput{
		CPF:   "123.456.789-00",
		Senha: "senha123",
		Nome:  "Maria Silva",
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "12345678900", member.CPF)
	assert.Equal(suite.T(), models.TipoColaborador, member.Tipo)
	assert.Equal(suite.T(), models.StatusAtivo, member.Status)
	suite.memberRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestCreateMember_InvalidCPF() {
	_, err := suite.svc.CreateMember(suite.ctx, suite.admin, &CreateMemberInput{
		CPF:   "1234",
		Senha: "senha123",
		Nome:  "Maria",
	})
	assert.Error(suite.T(), err)
	suite.memberRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *MemberServiceTestSuite) TestCreateMember_InvalidTipo() {
	_, err := suite.svc.CreateMember(suite.ctx, suite.admin, &CreateMemberInput{
		CPF:   "12345678900",
		Senha: "senha123",
		Nome:  "Maria",
		Tipo:  "gerente",
	})
	assert.Error(suite.T(), err)
}

func (suite *MemberServiceTestSuite) TestCreateMember_DuplicateCPF() {
	suite.memberRepo.On("Create", suite.ctx, mock.Anything).Return(repositories.ErrDuplicateCPF)

	_, err := suite.svc.CreateMember(suite.ctx, suite.admin, &CreateMemberInput{
		CPF:   "12345678900",
		Senha: "senha123",
		Nome:  "Maria",
	})
	assert.ErrorIs(suite.T(), err, repositories.ErrDuplicateCPF)
	suite.accessLog.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything)
}

func (suite *MemberServiceTestSuite) TestCreateMember_DependentWithMissingHolderStillCreated() {
	suite.memberRepo.On("FindByCPF", suite.ctx, "99988877766").Return(nil, nil)
	suite.memberRepo.On("Create", suite.ctx, mock.Anything).Return(nil)
	suite.accessLog.On("Record", suite.ctx, mock.Anything).Return(nil)

	member, err := suite.svc.CreateMember(suite.ctx, suite.admin, &CreateMemberInput{
		CPF:          "12345678900",
		Senha:        "senha123",
		Nome:         "Dependente",
		IsDependente: true,
		TitularCPF:   "999.888.777-66",
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "99988877766", member.TitularCPF)
}

func (suite *MemberServiceTestSuite) TestUpdateMember_HashesNewPassword() {
	senha := "nova-senha"
	patch := &models.MemberPatch{Senha: &senha}

	updated := &models.Member{CPF: "12345678900", Nome: "Maria"}
	suite.memberRepo.On("Update", suite.ctx, "12345678900", mock.MatchedBy(func(p *models.MemberPatch) bool {
		return p.Senha != nil &&
			bcrypt.CompareHashAndPassword([]byte(*p.Senha), []byte("nova-senha")) == nil
	})).Return(updated, nil)
	suite.accessLog.On("Record", suite.ctx, mock.Anything).Return(nil)

	member, err := suite.svc.UpdateMember(suite.ctx, suite.admin, "12345678900", patch)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), updated, member)
}

func (suite *MemberServiceTestSuite) TestUpdateMember_InvalidStatus() {
	status := "suspenso"
	_, err := suite.svc.UpdateMember(suite.ctx, suite.admin, "12345678900", &models.MemberPatch{Status: &status})
	assert.Error(suite.T(), err)
	suite.memberRepo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MemberServiceTestSuite) TestUpdateMember_NotFound() {
	suite.memberRepo.On("Update", suite.ctx, "12345678900", mock.Anything).Return(nil, repositories.ErrMemberNotFound)
	suite.accessLog.On("Record", suite.ctx, mock.Anything).Return(nil)

	_, err := suite.svc.UpdateMember(suite.ctx, suite.admin, "12345678900", &models.MemberPatch{})
	assert.ErrorIs(suite.T(), err, repositories.ErrMemberNotFound)
}

func (suite *MemberServiceTestSuite) TestDashboard_CacheHit() {
	cached := &models.DashboardMetrics{Ativos: 7}
	suite.cacheSvc.On("GetDashboard", suite.ctx).Return(cached, nil)

	metrics, err := suite.svc.Dashboard(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, metrics)
	suite.memberRepo.AssertNotCalled(suite.T(), "List", mock.Anything)
}

func (suite *MemberServiceTestSuite) TestDashboard_CacheMissRecomputes() {
	suite.cacheSvc.On("GetDashboard", suite.ctx).Return(nil, nil)
	suite.memberRepo.On("List", suite.ctx).Return([]*models.Member{
		{CPF: "1", Tipo: models.TipoColaborador, Status: models.StatusAtivo},
		{CPF: "2", Tipo: models.TipoColaborador, Status: models.StatusInativo},
	}, nil)
	suite.accessLog.On("Recent", suite.ctx, recentAccessLimit).Return([]*models.AccessEntry{}, nil)
	suite.cacheSvc.On("SetDashboard", suite.ctx, mock.Anything, dashboardTTL).Return(nil)

	metrics, err := suite.svc.Dashboard(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, metrics.Ativos)
	assert.Equal(suite.T(), 1, metrics.Inativos)
	suite.cacheSvc.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestRefreshDashboard_AccessLogFailureDegrades() {
	suite.memberRepo.On("List", suite.ctx).Return([]*models.Member{}, nil)
	suite.accessLog.On("Recent", suite.ctx, recentAccessLimit).Return(nil, errors.New("pg down"))
	suite.cacheSvc.On("SetDashboard", suite.ctx, mock.Anything, dashboardTTL).Return(nil)

	metrics, err := suite.svc.RefreshDashboard(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), metrics.UltimosAcessos)
	assert.Empty(suite.T(), metrics.UltimosAcessos)
}

func TestComputeMetrics_CountsOnlyColaboradores(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	members := []*models.Member{
		{CPF: "1", Tipo: models.TipoColaborador, Status: models.StatusAtivo},
		{CPF: "2", Tipo: models.TipoColaborador, Status: models.StatusAtivo},
		{CPF: "3", Tipo: models.TipoColaborador, Status: models.StatusInativo},
		{CPF: "4", Tipo: models.TipoColaborador, Status: models.StatusDesativado},
		{CPF: "5", Tipo: models.TipoAdmin, Status: models.StatusAtivo},
	}

	metrics := ComputeMetrics(members, now)
	assert.Equal(t, 2, metrics.Ativos)
	assert.Equal(t, 1, metrics.Inativos)
	assert.Equal(t, 1, metrics.Desativados)
	assert.Empty(t, metrics.PagamentosPendentes)
}

func TestComputeMetrics_CollectsOverduePayments(t *testing.T) {
	now := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	members := []*models.Member{
		{CPF: "1", Nome: "Atrasada", Tipo: models.TipoColaborador, Status: models.StatusAtivo, DataPagamento: "10/07/2026"},
		{CPF: "2", Nome: "Em dia", Tipo: models.TipoColaborador, Status: models.StatusAtivo, DataPagamento: "01/09/2026"},
	}

	metrics := ComputeMetrics(members, now)
	assert.Len(t, metrics.PagamentosPendentes, 1)
	assert.Equal(t, "Atrasada", metrics.PagamentosPendentes[0].Nome)
	assert.Equal(t, "10/07/2026", metrics.PagamentosPendentes[0].DataPagamento)
}

func TestPaymentOverdue_CutoffBoundary(t *testing.T) {
	now := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	base := models.Member{Tipo: models.TipoColaborador, Status: models.StatusAtivo}

	exactlyAtCutoff := base
	exactlyAtCutoff.DataPagamento = "15/08/2026"
	assert.False(t, PaymentOverdue(&exactlyAtCutoff, now))

	oneDayBefore := base
	oneDayBefore.DataPagamento = "14/08/2026"
	assert.True(t, PaymentOverdue(&oneDayBefore, now))

	oneDayAfter := base
	oneDayAfter.DataPagamento = "16/08/2026"
	assert.False(t, PaymentOverdue(&oneDayAfter, now))
}

func TestPaymentOverdue_SkipsNonEligible(t *testing.T) {
	now := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	inactive := &models.Member{Tipo: models.TipoColaborador, Status: models.StatusInativo, DataPagamento: "01/01/2020"}
	assert.False(t, PaymentOverdue(inactive, now))

	admin := &models.Member{Tipo: models.TipoAdmin, Status: models.StatusAtivo, DataPagamento: "01/01/2020"}
	assert.False(t, PaymentOverdue(admin, now))

	noDate := &models.Member{Tipo: models.TipoColaborador, Status: models.StatusAtivo}
	assert.False(t, PaymentOverdue(noDate, now))

	malformed := &models.Member{Tipo: models.TipoColaborador, Status: models.StatusAtivo, DataPagamento: "2026-01-01"}
	assert.False(t, PaymentOverdue(malformed, now))
}
