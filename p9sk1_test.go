package enoch

import (
	"encoding/hex"
	"testing"
)

func TestPassToKeyDeterministic(t *testing.T) {
	a := passToKey("password")
	b := passToKey("password")
	if a != b {
		t.Fatalf("passToKey should be deterministic")
	}
	c := passToKey("different")
	if a == c {
		t.Fatalf("different passwords should yield different keys")
	}
}

func TestPassToKeyEmpty(t *testing.T) {
	key := passToKey("")
	if len(key) != dession {
		t.Fatalf("expected %d byte key, got %d", dession, len(key))
	}
}

func TestPassToKeyLong(t *testing.T) {
	key := passToKey("this is a very long password that exceeds 8 characters")
	if len(key) != dession {
		t.Fatalf("expected %d byte key, got %d", dession, len(key))
	}
}

func TestFixedStringRoundTrip(t *testing.T) {
	var buf [anameLen]byte
	writeFixedString(buf[:], "testuser")
	got := readFixedString(buf[:])
	if got != "testuser" {
		t.Fatalf("got %q, want %q", got, "testuser")
	}
}

func TestMakeTicketRequestFormat(t *testing.T) {
	challenge := [chalLen]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	req := makeTicketRequest("authserver", "9front.local", challenge, "cpuserver", "glenda")

	if req[0] != authTreq {
		t.Fatalf("expected type byte %d, got %d", authTreq, req[0])
	}
	if len(req) != ticketRequestLen {
		t.Fatalf("expected length %d, got %d", ticketRequestLen, len(req))
	}

	off := 1 + anameLen + domLen
	for i := 0; i < chalLen; i++ {
		if req[off+i] != challenge[i] {
			t.Fatalf("challenge mismatch at byte %d", i)
		}
	}
}

func TestAuthenticatorRoundTrip(t *testing.T) {
	sessionKey := [dession]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}
	challenge := [chalLen]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	id := uint32(12345)

	encrypted := makeAuthenticator(authAc, challenge, id, sessionKey)
	decrypted := decryptAuthenticator(encrypted, sessionKey)

	if decrypted.Type != authAc {
		t.Fatalf("type mismatch: got %d want %d", decrypted.Type, authAc)
	}
	if decrypted.Challenge != challenge {
		t.Fatalf("challenge mismatch")
	}
	if decrypted.ID != id {
		t.Fatalf("id mismatch: got %d want %d", decrypted.ID, id)
	}
}

func TestTicketDecrypt(t *testing.T) {
	key := [dession]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}
	sessionKey := [dession]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x00}
	challenge := [chalLen]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	var ticket [ticketLen]byte
	ticket[0] = authTc
	copy(ticket[1:9], challenge[:])
	writeFixedString(ticket[9:9+anameLen], "glenda")
	writeFixedString(ticket[9+anameLen:9+2*anameLen], "cpuserver")
	copy(ticket[9+2*anameLen:], sessionKey[:])

	plan9Encrypt(key, ticket[:])

	decrypted := decryptTicket(ticket, key)
	if decrypted.Type != authTc {
		t.Fatalf("type mismatch")
	}
	if decrypted.Challenge != challenge {
		t.Fatalf("challenge mismatch")
	}
	if decrypted.CUID != "glenda" {
		t.Fatalf("cuid mismatch: got %q", decrypted.CUID)
	}
	if decrypted.SUID != "cpuserver" {
		t.Fatalf("suid mismatch: got %q", decrypted.SUID)
	}
	if decrypted.Key != sessionKey {
		t.Fatalf("session key mismatch")
	}
}

func TestMakeClientAuthenticatorIncrementsChallenge(t *testing.T) {
	client := NewP9sk1Client("glenda", "hunter2")
	ticket := Ticket{
		Key: [dession]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77},
	}
	serverChallenge := [chalLen]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	id := uint32(99)

	auth := client.MakeClientAuthenticator(ticket, serverChallenge, id)
	decrypted := decryptAuthenticator(auth, ticket.Key)

	wantChallenge := serverChallenge
	wantChallenge[0]++
	if decrypted.Challenge != wantChallenge {
		t.Fatalf("authenticator challenge = %x, want serverChallenge incremented: %x", decrypted.Challenge, wantChallenge)
	}
	if decrypted.Challenge == serverChallenge {
		t.Fatalf("authenticator challenge must not equal the raw, un-incremented serverChallenge")
	}
	if decrypted.Type != authAc {
		t.Fatalf("type mismatch: got %d want %d", decrypted.Type, authAc)
	}
	if decrypted.ID != id {
		t.Fatalf("id mismatch: got %d want %d", decrypted.ID, id)
	}
}

// TestPassToKeyInterop checks passToKey against vectors produced by an
// independent, working p9sk1 implementation.
func TestPassToKeyInterop(t *testing.T) {
	vectors := []struct {
		password string
		wantHex  string
	}{
		{"", "00100804028140"},
		{"glenda", "6776d94d0e0340"},
		{"password", "f0f07c7e7fcbc9"},
		{"p", "70000804028140"},
		{"12345678", "31d98c56b3dd70"},
		{"this is a long password", "0230f8b49e8dde"},
	}

	for _, v := range vectors {
		key := passToKey(v.password)
		got := hex.EncodeToString(key[:])
		if got != v.wantHex {
			t.Errorf("passToKey(%q) = %s, want %s", v.password, got, v.wantHex)
		}
	}
}
