package services

import (
	"context"
	"strings"
	"testing"

	"auraportal/internal/models"
	"auraportal/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CardServiceTestSuite struct {
	suite.Suite
	memberRepo *MockMemberRepository
	svc        CardService
	ctx        context.Context
}

func (suite *CardServiceTestSuite) SetupTest() {
	suite.memberRepo = new(MockMemberRepository)
	suite.svc = NewCardService(suite.memberRepo)
	suite.ctx = context.Background()
}

func TestCardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CardServiceTestSuite))
}

func titular(cpf, nome string) *models.Member {
	return &models.Member{
		CPF:    cpf,
		Nome:   nome,
		Tipo:   models.TipoColaborador,
		Status: models.StatusAtivo,
	}
}

func dependente(cpf, nome, titularCPF string) *models.Member {
	m := titular(cpf, nome)
	m.IsDependente = true
	m.TitularCPF = titularCPF
	return m
}

func (suite *CardServiceTestSuite) TestBuildCard_TitularWithDependents() {
	holder := titular("12345678900", "Maria Silva")
	all := []*models.Member{
		holder,
		dependente("11122233344", "João Silva", "12345678900"),
		dependente("55566677788", "Ana Silva", "12345678900"),
		dependente("99988877766", "Outro Dependente", "00000000000"),
		titular("22233344455", "Carlos Souza"),
	}

	suite.memberRepo.On("FindByCPF", suite.ctx, "12345678900").Return(holder, nil)
	suite.memberRepo.On("List", suite.ctx).Return(all, nil)

	card, err := suite.svc.BuildCard(suite.ctx, "12345678900")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.CardTitular, card.Tipo)
	assert.Equal(suite.T(), "12345678900", card.CPF)
	assert.Len(suite.T(), card.Dependentes, 2)

	cpfs := []string{card.Dependentes[0].CPF, card.Dependentes[1].CPF}
	assert.Contains(suite.T(), cpfs, "11122233344")
	assert.Contains(suite.T(), cpfs, "55566677788")
}

func (suite *CardServiceTestSuite) TestBuildCard_TitularWithoutDependents() {
	holder := titular("12345678900", "Maria Silva")
	all := []*models.Member{holder, titular("22233344455", "Carlos Souza")}

	suite.memberRepo.On("FindByCPF", suite.ctx, "12345678900").Return(holder, nil)
	suite.memberRepo.On("List", suite.ctx).Return(all, nil)

	card, err := suite.svc.BuildCard(suite.ctx, "12345678900")
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), card.Dependentes)
	assert.Empty(suite.T(), card.Dependentes)
}

func (suite *CardServiceTestSuite) TestBuildCard_DependentResolvesHolderName() {
	dep := dependente("11122233344", "João Silva", "12345678900")
	all := []*models.Member{titular("12345678900", "Maria Silva"), dep}

	suite.memberRepo.On("FindByCPF", suite.ctx, "11122233344").Return(dep, nil)
	suite.memberRepo.On("List", suite.ctx).Return(all, nil)

	card, err := suite.svc.BuildCard(suite.ctx, "11122233344")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.CardDependente, card.Tipo)
	assert.Equal(suite.T(), "Maria Silva", card.TitularNome)
}

func (suite *CardServiceTestSuite) TestBuildCard_DependentWithMissingHolder() {
	dep := dependente("11122233344", "João Silva", "00000000000")
	all := []*models.Member{dep}

	suite.memberRepo.On("FindByCPF", suite.ctx, "11122233344").Return(dep, nil)
	suite.memberRepo.On("List", suite.ctx).Return(all, nil)

	card, err := suite.svc.BuildCard(suite.ctx, "11122233344")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "", card.TitularNome)
}

func (suite *CardServiceTestSuite) TestBuildCard_UnknownMember() {
	suite.memberRepo.On("FindByCPF", suite.ctx, "00000000000").Return(nil, nil)

	_, err := suite.svc.BuildCard(suite.ctx, "00000000000")
	assert.ErrorIs(suite.T(), err, repositories.ErrMemberNotFound)
}

func TestBuildCardPayload_ValidityDefault(t *testing.T) {
	holder := titular("12345678900", "Maria Silva")
	card := BuildCardPayload(holder, []*models.Member{holder})
	assert.Equal(t, "12/2025", card.Validade)

	holder.DataValidade = "03/2027"
	card = BuildCardPayload(holder, []*models.Member{holder})
	assert.Equal(t, "03/2027", card.Validade)
}

func TestBuildCardPayload_HolderNameIgnoresDependentRows(t *testing.T) {
	// A dependent row sharing the holder's CPF must not resolve as holder.
	dep := dependente("11122233344", "João Silva", "12345678900")
	impostor := dependente("12345678900", "Falso Titular", "99999999999")
	card := BuildCardPayload(dep, []*models.Member{dep, impostor})
	assert.Equal(t, "", card.TitularNome)
}

func TestRegistrationCode_Shape(t *testing.T) {
	code := RegistrationCode("12345678900", models.CardTitular)
	assert.True(t, strings.HasPrefix(code, "TIT-AURA-G-8900"))
	assert.Len(t, code, len("TIT-AURA-G-8900")+2)

	depCode := RegistrationCode("11122233344", models.CardDependente)
	assert.True(t, strings.HasPrefix(depCode, "DEP-AURA-G-3344"))
}

func TestRegistrationCode_StableAcrossReads(t *testing.T) {
	first := RegistrationCode("12345678900", models.CardTitular)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RegistrationCode("12345678900", models.CardTitular))
	}
}

func TestRegistrationCode_FormattedCPF(t *testing.T) {
	plain := RegistrationCode("12345678900", models.CardTitular)
	formatted := RegistrationCode("123.456.789-00", models.CardTitular)
	assert.Equal(t, plain, formatted)
}
