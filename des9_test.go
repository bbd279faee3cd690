package enoch

import (
	"bytes"
	"encoding/hex"
	"math/bits"
	"testing"
)

func mustHexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex literal %q: %v", s, err)
	}
	return b
}

func TestExpandKeyParity(t *testing.T) {
	var key7 [7]byte
	copy(key7[:], mustHexBytes(t, "0123456789abcd"))
	key8 := expandKey(key7)
	for _, b := range key8 {
		if bits.OnesCount8(b)%2 != 1 {
			t.Fatalf("expected odd parity for byte %#02x", b)
		}
	}
}

func TestPlan9EncryptDecryptRoundTrip(t *testing.T) {
	var key [7]byte
	copy(key[:], mustHexBytes(t, "0123456789abcd"))

	original := []byte("Hello, Plan 9 World!")
	data := append([]byte(nil), original...)

	plan9Encrypt(key, data)
	if bytes.Equal(data, original) {
		t.Fatalf("encryption should change the data")
	}

	plan9Decrypt(key, data)
	if !bytes.Equal(data, original) {
		t.Fatalf("decryption should restore the original data")
	}
}

func TestPlan9TicketSizeRoundTrip(t *testing.T) {
	var key [7]byte
	copy(key[:], mustHexBytes(t, "11223344556677"))

	ticket := make([]byte, ticketLen)
	for i := range ticket {
		ticket[i] = byte(i)
	}
	original := append([]byte(nil), ticket...)

	plan9Encrypt(key, ticket)
	if bytes.Equal(ticket, original) {
		t.Fatalf("encryption should change the ticket")
	}
	plan9Decrypt(key, ticket)
	if !bytes.Equal(ticket, original) {
		t.Fatalf("decryption should restore the original ticket")
	}
}

func TestPlan9EncryptInterop8Byte(t *testing.T) {
	var key [7]byte
	copy(key[:], mustHexBytes(t, "6776d94d0e0340"))

	data := mustHexBytes(t, "0102030405060708")
	want := mustHexBytes(t, "35597a5f09782178")

	plan9Encrypt(key, data)
	if !bytes.Equal(data, want) {
		t.Fatalf("DES 8-byte encryption mismatch: got %x want %x", data, want)
	}
}

func TestPlan9EncryptInterop72Byte(t *testing.T) {
	var key [7]byte
	copy(key[:], mustHexBytes(t, "6776d94d0e0340"))

	plaintext := mustHexBytes(t,
		"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"+
			"202122232425262728292a2b2c2d2e2f303132333435363738393a3b3c3d3e3f"+
			"4041424344454647")
	want := mustHexBytes(t,
		"51162cad5fa17d866e955b5fb1552260338ce1fccec8bf1a2f76220692fc32ca"+
			"0b8f222aa2f58a71df75f433a983ffc4f408953509323918ac10457812e27b55"+
			"cd89fba5dc6dd724")

	data := append([]byte(nil), plaintext...)
	plan9Encrypt(key, data)
	if !bytes.Equal(data, want) {
		t.Fatalf("DES 72-byte encryption mismatch: got %x want %x", data, want)
	}

	plan9Decrypt(key, data)
	if !bytes.Equal(data, plaintext) {
		t.Fatalf("DES 72-byte decryption mismatch: got %x want %x", data, plaintext)
	}
}
