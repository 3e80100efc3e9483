package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims lidas do token emitido pelo serviço de identidade.
type Claims struct {
	UserID    uint `json:"userId"`
	IsManager bool `json:"isManager"`
	jwt.RegisteredClaims
}

// Verifier valida tokens HS256 assinados com o segredo compartilhado.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// ValidarToken valida assinatura e expiração e retorna as claims.
func (v *Verifier) ValidarToken(tokenStr string) (*Claims, error) {
	token, err := v.parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token inválido ou expirado: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("não foi possível extrair claims")
	}
	if claims.UserID == 0 {
		return nil, errors.New("token sem userId")
	}
	return claims, nil
}
