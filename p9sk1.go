package enoch

import (
	"bytes"
	"encoding/binary"
)

// p9sk1 is the classic Plan 9 authentication protocol: the client derives a
// 7-byte DES key from the user's password (passtokey.c), decrypts a ticket
// issued by the authentication server, and proves possession of the
// resulting session key with a short authenticator.

// Field widths from authsrv.h.
const (
	anameLen   = 28
	domLen     = 48
	chalLen    = 8
	dession    = 7  // p9sk1 DES session key size
	ticketLen  = 72 // 1 + 8 + 28 + 28 + 7
	authentLen = 13 // 1 + 8 + 4
)

// Auth message types, from authsrv.h.
const (
	authTreq byte = 1  // ticket request
	authOk   byte = 4  // success
	authErr  byte = 5  // error
	authTs   byte = 64 // server ticket
	authTc   byte = 65 // client ticket
	authAs   byte = 66 // server authenticator
	authAc   byte = 67 // client authenticator
)

// ticketRequestLen is the length of a p9sk1 ticket request message:
// type[1] + authid[anameLen] + authdom[domLen] + chal[chalLen] +
// hostid[anameLen] + uid[anameLen].
const ticketRequestLen = 1 + anameLen + domLen + chalLen + anameLen + anameLen

// Ticket is the decrypted contents of a p9sk1 ticket.
type Ticket struct {
	Type      byte
	Challenge [chalLen]byte
	CUID      string
	SUID      string
	Key       [dession]byte
}

// Authenticator is the decrypted contents of a p9sk1 authenticator.
type Authenticator struct {
	Type      byte
	Challenge [chalLen]byte
	ID        uint32
}

// passToKey derives a 7-byte DES key from a password, exactly matching
// 9front's passtokey.c. Short passwords are space-padded; passwords longer
// than 8 bytes are folded in by repeatedly re-encrypting later chunks of the
// password under the key extracted so far.
func passToKey(password string) [dession]byte {
	var buf [anameLen]byte
	var key [dession]byte

	for i := 0; i < 8 && i < anameLen; i++ {
		buf[i] = ' '
	}

	pw := []byte(password)
	n := len(pw)
	if n > anameLen-1 {
		n = anameLen - 1
	}
	copy(buf[:n], pw[:n])
	buf[n] = 0

	remaining := n
	window := buf[:8]

	for {
		for i := 0; i < dession; i++ {
			key[i] = (window[i] >> uint(i)) | (window[i+1] << uint(7-i))
		}

		if remaining <= 8 {
			break
		}
		remaining -= 8

		offset := 0
		if remaining < 8 {
			offset = 8 - remaining
		}
		srcStart := anameLen - remaining - offset

		var next [8]byte
		copy(next[:], buf[srcStart:srcStart+8])
		plan9Encrypt(key, next[:])

		copy(buf[:8], next[:])
		window = buf[:8]

		if remaining < 8 {
			remaining = 8
		}
	}

	return key
}

// decryptTicket decrypts a p9sk1 ticket with the given DES key.
func decryptTicket(encrypted [ticketLen]byte, key [dession]byte) Ticket {
	data := encrypted
	plan9Decrypt(key, data[:])

	var tk Ticket
	tk.Type = data[0]
	copy(tk.Challenge[:], data[1:1+chalLen])
	tk.CUID = readFixedString(data[1+chalLen : 1+chalLen+anameLen])
	tk.SUID = readFixedString(data[1+chalLen+anameLen : 1+chalLen+2*anameLen])
	copy(tk.Key[:], data[1+chalLen+2*anameLen:ticketLen])
	return tk
}

// makeAuthenticator builds and encrypts an authenticator under the given
// session key.
func makeAuthenticator(authType byte, challenge [chalLen]byte, id uint32, sessionKey [dession]byte) [authentLen]byte {
	var auth [authentLen]byte
	auth[0] = authType
	copy(auth[1:1+chalLen], challenge[:])
	binary.LittleEndian.PutUint32(auth[1+chalLen:], id)

	plan9Encrypt(sessionKey, auth[:])
	return auth
}

// decryptAuthenticator decrypts an authenticator received from a server.
func decryptAuthenticator(encrypted [authentLen]byte, sessionKey [dession]byte) Authenticator {
	data := encrypted
	plan9Decrypt(sessionKey, data[:])

	var a Authenticator
	a.Type = data[0]
	copy(a.Challenge[:], data[1:1+chalLen])
	a.ID = binary.LittleEndian.Uint32(data[1+chalLen : 1+chalLen+4])
	return a
}

// makeTicketRequest builds a p9sk1 ticket request message:
// type[1] + authid[anameLen] + authdom[domLen] + chal[chalLen] +
// hostid[anameLen] + uid[anameLen] = 141 bytes.
func makeTicketRequest(authid, authdom string, challenge [chalLen]byte, hostid, uid string) [ticketRequestLen]byte {
	var req [ticketRequestLen]byte
	req[0] = authTreq

	off := 1
	writeFixedString(req[off:off+anameLen], authid)
	off += anameLen
	writeFixedString(req[off:off+domLen], authdom)
	off += domLen
	copy(req[off:off+chalLen], challenge[:])
	off += chalLen
	writeFixedString(req[off:off+anameLen], hostid)
	off += anameLen
	writeFixedString(req[off:off+anameLen], uid)

	return req
}

// readFixedString reads a NUL-terminated string out of a fixed-width field.
func readFixedString(data []byte) string {
	end := bytes.IndexByte(data, 0)
	if end < 0 {
		end = len(data)
	}
	return string(data[:end])
}

// writeFixedString writes s into dest, NUL-padding the remainder. s is
// truncated if it would not leave room for a terminating NUL.
func writeFixedString(dest []byte, s string) {
	for i := range dest {
		dest[i] = 0
	}
	b := []byte(s)
	n := len(b)
	if n > len(dest)-1 {
		n = len(dest) - 1
	}
	copy(dest[:n], b[:n])
}

// P9sk1Client drives the client side of a p9sk1 exchange: deriving the
// password key, decrypting the client ticket, and building the
// authenticator sent to the target service.
type P9sk1Client struct {
	User     string
	Password string
	key      [dession]byte
}

// NewP9sk1Client derives the DES key for user/password and returns a ready
// client.
func NewP9sk1Client(user, password string) *P9sk1Client {
	return &P9sk1Client{
		User:     user,
		Password: password,
		key:      passToKey(password),
	}
}

// Key returns the DES key derived from the client's password.
func (c *P9sk1Client) Key() [dession]byte {
	return c.key
}

// DecryptClientTicket decrypts the client ticket from the auth server's
// response.
func (c *P9sk1Client) DecryptClientTicket(encrypted [ticketLen]byte) Ticket {
	return decryptTicket(encrypted, c.key)
}

// MakeClientAuthenticator builds the authenticator sent to the target
// service, proving possession of the ticket's session key. serverChallenge
// is the challenge the service presented; per p9sk1 convention its first
// byte is incremented before encryption.
func (c *P9sk1Client) MakeClientAuthenticator(ticket Ticket, serverChallenge [chalLen]byte, id uint32) [authentLen]byte {
	authChallenge := serverChallenge
	authChallenge[0]++
	return makeAuthenticator(authAc, authChallenge, id, ticket.Key)
}
