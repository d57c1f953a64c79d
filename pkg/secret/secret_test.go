package secret

import "testing"

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	priv, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	plaintext := []byte("super-secret-token")

	ciphertext, err := Encrypt(priv.PublicKey(), plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if string(ciphertext) == string(plaintext) {
		t.Fatal("ciphertext equals plaintext")
	}

	got, err := Decrypt(priv, ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Fatalf("Decrypt = %q, want %q", got, plaintext)
	}
}

func TestEncrypt_NondeterministicAcrossCalls(t *testing.T) {
	priv, _ := GenerateKeyPair()
	plaintext := []byte("same-secret")

	a, err := Encrypt(priv.PublicKey(), plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := Encrypt(priv.PublicKey(), plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if string(a) == string(b) {
		t.Fatal("two encryptions of the same plaintext produced identical ciphertext")
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	priv1, _ := GenerateKeyPair()
	priv2, _ := GenerateKeyPair()

	ciphertext, err := Encrypt(priv1.PublicKey(), []byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if _, err := Decrypt(priv2, ciphertext); err == nil {
		t.Fatal("expected decryption failure with wrong key")
	}
}

func TestDecrypt_TamperedCiphertextFails(t *testing.T) {
	priv, _ := GenerateKeyPair()

	ciphertext, err := Encrypt(priv.PublicKey(), []byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	ciphertext[len(ciphertext)-1] ^= 0xFF

	if _, err := Decrypt(priv, ciphertext); err == nil {
		t.Fatal("expected decryption failure on tampered ciphertext")
	}
}
