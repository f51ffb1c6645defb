package services

import (
	"context"
	"crypto/sha256"
	"fmt"

	"auraportal/internal/models"
	"auraportal/internal/repositories"
)

// Fallback printed on cards whose record carries no validity date.
const defaultValidade = "12/2025"

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CardService assembles presentation-ready membership cards.
type CardService interface {
	BuildCard(ctx context.Context, cpf string) (*models.CardPayload, error)
}

type cardService struct {
	memberRepo repositories.MemberRepository
}

// NewCardService creates a new card service
func NewCardService(memberRepo repositories.MemberRepository) CardService {
	return &cardService{memberRepo: memberRepo}
}

// BuildCard loads the member record and shapes the card payload. A primary
// holder's card carries all dependents linked to it; a dependent's card
// carries the holder's name.
func (s *cardService) BuildCard(ctx context.Context, cpf string) (*models.CardPayload, error) {
	member, err := s.memberRepo.FindByCPF(ctx, cpf)
	if err != nil {
		return nil, fmt.Errorf("failed to look up member: %w", err)
	}
	if member == nil {
		return nil, repositories.ErrMemberNotFound
	}

	all, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return BuildCardPayload(member, all), nil
}

// BuildCardPayload shapes the card for one member given the full record set.
// A dependent whose holder CPF resolves to nothing gets an empty holder name
// rather than an error.
func BuildCardPayload(member *models.Member, all []*models.Member) *models.CardPayload {
	card := &models.CardPayload{
		Nome:        member.Nome,
		CPF:         member.CPF,
		Validade:    validade(member.DataValidade),
		Dependentes: []models.DependentCard{},
	}

	if member.IsDependente {
		card.Tipo = models.CardDependente
		card.Registro = RegistrationCode(member.CPF, models.CardDependente)
		for _, m := range all {
			if !m.IsDependente && m.CPF == member.TitularCPF {
				card.TitularNome = m.Nome
				break
			}
		}
		return card
	}

	card.Tipo = models.CardTitular
	card.Registro = RegistrationCode(member.CPF, models.CardTitular)
	for _, m := range all {
		if m.IsDependente && m.TitularCPF == member.CPF {
			card.Dependentes = append(card.Dependentes, models.DependentCard{
				Nome:     m.Nome,
				CPF:      m.CPF,
				Registro: RegistrationCode(m.CPF, models.CardDependente),
				Validade: validade(m.DataValidade),
			})
		}
	}
	return card
}

// RegistrationCode derives the card registration number
// {TIT|DEP}-AURA-G-{last4}{2 chars}. The trailing characters come from a
// hash of the CPF so the code is stable across reads.
func RegistrationCode(cpf, tipo string) string {
	prefix := "TIT"
	if tipo == models.CardDependente {
		prefix = "DEP"
	}

	digits := onlyDigits(cpf)
	last4 := digits
	if len(digits) > 4 {
		last4 = digits[len(digits)-4:]
	}

	sum := sha256.Sum256([]byte(digits))
	suffix := string([]byte{
		base36Alphabet[int(sum[0])%len(base36Alphabet)],
		base36Alphabet[int(sum[1])%len(base36Alphabet)],
	})

	return fmt.Sprintf("%s-AURA-G-%s%s", prefix, last4, suffix)
}

func validade(dataValidade string) string {
	if dataValidade == "" {
		return defaultValidade
	}
	return dataValidade
}

func onlyDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
