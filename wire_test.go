package enoch

import (
	"testing"

	"golang.org/x/crypto/chacha20poly1305"
)

func TestMakePakRequestFormat(t *testing.T) {
	challenge := [chalLen]byte{1, 2, 3, 4, 5, 6, 7, 8}
	req := makePakRequest("9front.local", challenge, "cpuserver", "glenda")

	if req[0] != authPak {
		t.Fatalf("expected type byte %d, got %d", authPak, req[0])
	}
	if len(req) != ticketRequestLen {
		t.Fatalf("expected length %d, got %d", ticketRequestLen, len(req))
	}
	if got := readFixedString(req[1 : 1+anameLen]); got != "" {
		t.Fatalf("expected empty authid, got %q", got)
	}
}

func TestRewriteAsTicketRequest(t *testing.T) {
	challenge := [chalLen]byte{1, 2, 3, 4, 5, 6, 7, 8}
	req := makePakRequest("9front.local", challenge, "cpuserver", "glenda")
	rewriteAsTicketRequest(&req)
	if req[0] != authTreq {
		t.Fatalf("expected type byte %d after rewrite, got %d", authTreq, req[0])
	}
}

func TestOpenDp9ikTicketRoundTrip(t *testing.T) {
	key := [dp9ikKeyLen]byte{}
	for i := range key {
		key[i] = byte(i)
	}

	var plain [dp9ikPlainLen]byte
	challenge := [chalLen]byte{1, 2, 3, 4, 5, 6, 7, 8}
	copy(plain[:chalLen], challenge[:])
	writeFixedString(plain[chalLen:chalLen+anameLen], "glenda")
	writeFixedString(plain[chalLen+anameLen:chalLen+2*anameLen], "cpuserver")
	var sessionKey [dp9ikKeyLen]byte
	for i := range sessionKey {
		sessionKey[i] = byte(0xaa + i)
	}
	copy(plain[chalLen+2*anameLen:], sessionKey[:])

	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		t.Fatalf("chacha20poly1305.New: %v", err)
	}
	var sig [dp9ikSigLen]byte
	copy(sig[:], "form1 Tc")
	var counter [dp9ikCounterLen]byte
	nonce := append(append([]byte{}, sig[:]...), counter[:]...)

	var ticket [dp9ikTicketLen]byte
	copy(ticket[:dp9ikSigLen+dp9ikCounterLen], nonce)
	sealed := aead.Seal(nil, nonce, plain[:], nil)
	copy(ticket[dp9ikSigLen+dp9ikCounterLen:], sealed)

	tk, err := openDp9ikTicket(ticket, key)
	if err != nil {
		t.Fatalf("openDp9ikTicket: %v", err)
	}
	if tk.Challenge != challenge {
		t.Fatalf("challenge mismatch")
	}
	if tk.CUID != "glenda" {
		t.Fatalf("cuid mismatch: got %q", tk.CUID)
	}
	if tk.SUID != "cpuserver" {
		t.Fatalf("suid mismatch: got %q", tk.SUID)
	}
	if tk.Key != sessionKey {
		t.Fatalf("session key mismatch")
	}
}

func TestOpenDp9ikTicketRejectsTamperedCiphertext(t *testing.T) {
	key := [dp9ikKeyLen]byte{}
	var ticket [dp9ikTicketLen]byte
	copy(ticket[:8], "form1 Tc")
	// All-zero ciphertext+tag; should fail authentication rather than panic
	// or silently succeed.
	if _, err := openDp9ikTicket(ticket, key); err == nil {
		t.Fatalf("expected AEAD authentication failure")
	}
}
