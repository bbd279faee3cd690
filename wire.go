package enoch

import "golang.org/x/crypto/chacha20poly1305"

// Additional message type used only by dp9ik, alongside the p9sk1 set in
// p9sk1.go.
const authPak byte = 19

// dp9ik ticket layout: signature(8) | counter(4) | ciphertext(96) | tag(16).
// The 12-byte AEAD nonce is literally the ticket's own signature+counter
// header.
const (
	dp9ikSigLen     = 8
	dp9ikCounterLen = 4
	dp9ikKeyLen     = 32
	dp9ikPlainLen   = chalLen + anameLen + anameLen + dp9ikKeyLen // 96
	dp9ikTicketLen  = dp9ikSigLen + dp9ikCounterLen + dp9ikPlainLen + chacha20poly1305.Overhead
	errMessageLen   = 64
	statusByteLen   = 1
)

// Dp9ikTicket is the decrypted contents of a dp9ik ticket.
type Dp9ikTicket struct {
	Challenge [chalLen]byte
	CUID      string
	SUID      string
	Key       [dp9ikKeyLen]byte
}

// openDp9ikTicket authenticates and decrypts a dp9ik ticket under the PAK
// session key. The nonce is taken directly from the ticket's own
// signature+counter header, per the dp9ik wire format.
func openDp9ikTicket(ticket [dp9ikTicketLen]byte, pakKey [dp9ikKeyLen]byte) (Dp9ikTicket, error) {
	aead, err := chacha20poly1305.New(pakKey[:])
	if err != nil {
		return Dp9ikTicket{}, err
	}

	nonce := ticket[:dp9ikSigLen+dp9ikCounterLen]
	sealed := ticket[dp9ikSigLen+dp9ikCounterLen:]

	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return Dp9ikTicket{}, &ProtocolError{Reason: "dp9ik ticket failed AEAD authentication"}
	}

	var tk Dp9ikTicket
	copy(tk.Challenge[:], plain[:chalLen])
	tk.CUID = readFixedString(plain[chalLen : chalLen+anameLen])
	tk.SUID = readFixedString(plain[chalLen+anameLen : chalLen+2*anameLen])
	copy(tk.Key[:], plain[chalLen+2*anameLen:dp9ikPlainLen])
	return tk, nil
}

// makePakRequest builds the 141-byte record a dp9ik attempt sends to start
// the PAK exchange: the same layout as a p9sk1 ticket request, but typed
// AUTH_PAK with an empty authid, requesting a single exchange bound to
// hostid.
func makePakRequest(authdom string, challenge [chalLen]byte, hostid, uid string) [ticketRequestLen]byte {
	req := makeTicketRequest("", authdom, challenge, hostid, uid)
	req[0] = authPak
	return req
}

// rewriteAsTicketRequest turns a sent PAK record into the follow-up ticket
// request dp9ik sends after completing the PAK exchange: same bytes, type
// byte rewritten from AUTH_PAK to AUTH_TREQ.
func rewriteAsTicketRequest(req *[ticketRequestLen]byte) {
	req[0] = authTreq
}
