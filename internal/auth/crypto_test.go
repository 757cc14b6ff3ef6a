package auth

import (
	"testing"
)

func initTestCrypto(t *testing.T) {
	t.Helper()
	t.Setenv("REFRESH_TOKEN_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")
	if err := InitCrypto(); err != nil {
		t.Fatalf("InitCrypto: %v", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	initTestCrypto(t)

	const token = "1//refresh-token-from-google"
	encrypted, err := EncryptRefreshToken(token)
	if err != nil {
		t.Fatalf("EncryptRefreshToken: %v", err)
	}
	if encrypted == token {
		t.Fatal("encrypted token equals plaintext")
	}

	decrypted, err := DecryptRefreshToken(encrypted)
	if err != nil {
		t.Fatalf("DecryptRefreshToken: %v", err)
	}
	if decrypted != token {
		t.Errorf("round trip = %q, want %q", decrypted, token)
	}
}

func TestEncryptRefreshTokenEmptyIsNoop(t *testing.T) {
	initTestCrypto(t)

	encrypted, err := EncryptRefreshToken("")
	if err != nil || encrypted != "" {
		t.Errorf("EncryptRefreshToken(\"\") = %q, %v; want empty, nil", encrypted, err)
	}
	decrypted, err := DecryptRefreshToken("")
	if err != nil || decrypted != "" {
		t.Errorf("DecryptRefreshToken(\"\") = %q, %v; want empty, nil", decrypted, err)
	}
}

func TestDecryptRefreshTokenRejectsTampering(t *testing.T) {
	initTestCrypto(t)

	encrypted, err := EncryptRefreshToken("secret")
	if err != nil {
		t.Fatalf("EncryptRefreshToken: %v", err)
	}

	tampered := "A" + encrypted[1:]
	if tampered == encrypted {
		tampered = "B" + encrypted[1:]
	}
	if _, err := DecryptRefreshToken(tampered); err == nil {
		t.Error("expected error for tampered ciphertext")
	}

	if _, err := DecryptRefreshToken("not base64 at all!"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestInitCryptoRejectsBadKey(t *testing.T) {
	t.Setenv("REFRESH_TOKEN_ENCRYPTION_KEY", "too-short")
	if err := InitCrypto(); err == nil {
		t.Error("expected error for key shorter than 32 bytes")
	}

	t.Setenv("REFRESH_TOKEN_ENCRYPTION_KEY", "")
	if err := InitCrypto(); err == nil {
		t.Error("expected error for unset key")
	}
}
