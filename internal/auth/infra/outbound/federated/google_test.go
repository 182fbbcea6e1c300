package federated

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const clientID = "vivento-client-id"

func claimsDeGoogle(sub string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":     "https://accounts.google.com",
		"aud":     clientID,
		"sub":     sub,
		"email":   "ana@gmail.com",
		"name":    "Ana García",
		"picture": "https://example.com/foto.jpg",
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	}
}

func firmarRS256(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	assert.NoError(t, err)
	return signed
}

func setupVerifier(t *testing.T) (*GoogleVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key.Public()}}
	return newGoogleVerifier(keySet, clientID), key
}

func TestGoogleVerifier_TokenValido(t *testing.T) {
	verifier, key := setupVerifier(t)

	identity, err := verifier.Verify(context.Background(), firmarRS256(t, key, claimsDeGoogle("google-123")))
	assert.NoError(t, err)
	assert.Equal(t, "google-123", identity.UID)
	assert.Equal(t, "ana@gmail.com", identity.Email)
	assert.Equal(t, "Ana García", identity.Nombre)
	assert.Equal(t, "https://example.com/foto.jpg", identity.PhotoURL)
}

func TestGoogleVerifier_RechazaFirmaAjena(t *testing.T) {
	verifier, _ := setupVerifier(t)

	// Claims perfectas (issuer, audiencia, expiración, sub de la víctima)
	// pero firmadas con una clave que no está en el JWKS del proveedor.
	otraClave, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)
	forjado := firmarRS256(t, otraClave, claimsDeGoogle("uid-de-la-victima"))

	_, err = verifier.Verify(context.Background(), forjado)
	assert.ErrorIs(t, err, ErrTokenFederadoInvalido)
}

func TestGoogleVerifier_RechazaHS256(t *testing.T) {
	verifier, _ := setupVerifier(t)

	// Un token simétrico con cualquier secreto no puede suplantar a Google.
	forjado, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsDeGoogle("uid-de-la-victima")).
		SignedString([]byte("clave-del-atacante"))
	assert.NoError(t, err)

	_, err = verifier.Verify(context.Background(), forjado)
	assert.ErrorIs(t, err, ErrTokenFederadoInvalido)
}

func TestGoogleVerifier_RechazaAudienciaAjena(t *testing.T) {
	verifier, key := setupVerifier(t)

	claims := claimsDeGoogle("google-123")
	claims["aud"] = "otro-cliente"

	_, err := verifier.Verify(context.Background(), firmarRS256(t, key, claims))
	assert.ErrorIs(t, err, ErrTokenFederadoInvalido)
}

func TestGoogleVerifier_RechazaIssuerAjeno(t *testing.T) {
	verifier, key := setupVerifier(t)

	claims := claimsDeGoogle("google-123")
	claims["iss"] = "https://idp-malicioso.example.com"

	_, err := verifier.Verify(context.Background(), firmarRS256(t, key, claims))
	assert.ErrorIs(t, err, ErrTokenFederadoInvalido)
}

func TestGoogleVerifier_RechazaExpirado(t *testing.T) {
	verifier, key := setupVerifier(t)

	claims := claimsDeGoogle("google-123")
	claims["iat"] = time.Now().Add(-2 * time.Hour).Unix()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := verifier.Verify(context.Background(), firmarRS256(t, key, claims))
	assert.ErrorIs(t, err, ErrTokenFederadoInvalido)
}
