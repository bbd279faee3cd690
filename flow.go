package enoch

import (
	"io"
	"time"
)

// flow drives the two client state machines over a caller-supplied duplex
// byte stream: send request, await a status byte, then await the payload
// that status implies. Neither exchange retries or runs concurrently with
// itself; a failed read or an unexpected status byte ends the attempt.

// readDeadliner is implemented by streams (such as net.Conn) that support
// bounding a read. Streams that don't implement it are used without a
// deadline.
type readDeadliner interface {
	SetReadDeadline(time.Time) error
}

const readTimeout = 5 * time.Second

func readExact(stream io.Reader, n int) ([]byte, error) {
	if d, ok := stream.(readDeadliner); ok {
		d.SetReadDeadline(time.Now().Add(readTimeout))
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(stream, buf); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, &ProtocolError{Reason: "short read"}
		}
		return nil, err
	}
	return buf, nil
}

func readStatus(stream io.Reader) (byte, error) {
	b, err := readExact(stream, statusByteLen)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func readPeerError(stream io.Reader) error {
	msg, err := readExact(stream, errMessageLen)
	if err != nil {
		return err
	}
	return &PeerError{Message: readFixedString(msg)}
}

func randomChallenge(rng io.Reader) ([chalLen]byte, error) {
	var c [chalLen]byte
	if _, err := io.ReadFull(rng, c[:]); err != nil {
		return c, err
	}
	return c, nil
}

// P9sk1Result is what a successful p9sk1 attempt yields: the session key
// shared with the target service, and the opaque server ticket to forward
// to it unmodified.
type P9sk1Result struct {
	SessionKey   [dession]byte
	ServerTicket [ticketLen]byte
	CUID, SUID   string
}

// RunP9sk1 drives a full p9sk1 exchange over stream: it sends a ticket
// request, reads the auth server's response, and decrypts the client's
// ticket. rng supplies the request challenge; by default pass
// crypto/rand.Reader.
func RunP9sk1(stream io.ReadWriter, rng io.Reader, client *P9sk1Client, authid, authdom, hostid string) (*P9sk1Result, error) {
	challenge, err := randomChallenge(rng)
	if err != nil {
		return nil, err
	}

	req := makeTicketRequest(authid, authdom, challenge, hostid, client.User)
	if _, err := stream.Write(req[:]); err != nil {
		return nil, err
	}

	status, err := readStatus(stream)
	if err != nil {
		return nil, err
	}
	switch status {
	case authOk:
		// fall through
	case authErr:
		return nil, readPeerError(stream)
	default:
		return nil, &ProtocolError{Reason: "unexpected status byte in p9sk1 response"}
	}

	clientTicketBytes, err := readExact(stream, ticketLen)
	if err != nil {
		return nil, err
	}
	serverTicketBytes, err := readExact(stream, ticketLen)
	if err != nil {
		return nil, err
	}

	var clientTicket [ticketLen]byte
	copy(clientTicket[:], clientTicketBytes)
	ticket := client.DecryptClientTicket(clientTicket)

	var serverTicket [ticketLen]byte
	copy(serverTicket[:], serverTicketBytes)

	return &P9sk1Result{
		SessionKey:   ticket.Key,
		ServerTicket: serverTicket,
		CUID:         ticket.CUID,
		SUID:         ticket.SUID,
	}, nil
}

// Dp9ikResult is what a successful dp9ik attempt yields.
type Dp9ikResult struct {
	SessionKey   [dp9ikKeyLen]byte
	ServerTicket [dp9ikTicketLen]byte
	CUID, SUID   string
}

// RunDp9ik drives a full dp9ik exchange over stream: a PAK handshake bound
// to hostid, followed by a ticket request reusing the same wire record,
// followed by AEAD-sealed ticket decryption. rng supplies the request
// challenge and the PAK private scalar; by default pass crypto/rand.Reader.
func RunDp9ik(stream io.ReadWriter, rng io.Reader, password, username, authdom, hostid string) (*Dp9ikResult, error) {
	challenge, err := randomChallenge(rng)
	if err != nil {
		return nil, err
	}

	req := makePakRequest(authdom, challenge, hostid, username)
	if _, err := stream.Write(req[:]); err != nil {
		return nil, err
	}

	status, err := readStatus(stream)
	if err != nil {
		return nil, err
	}
	switch status {
	case authOk:
		// fall through
	case authErr:
		return nil, readPeerError(stream)
	default:
		return nil, &ProtocolError{Reason: "unexpected status byte in dp9ik PAK response"}
	}

	serverYBytes, err := readExact(stream, pakYLen)
	if err != nil {
		return nil, err
	}
	var serverY [pakYLen]byte
	copy(serverY[:], serverYBytes)

	pakHash, err := authpakHash(password, username)
	if err != nil {
		return nil, err
	}
	clientPriv, err := authpakNew(rng, pakHash, true)
	if err != nil {
		return nil, err
	}

	if _, err := stream.Write(clientPriv.Y[:]); err != nil {
		return nil, err
	}

	pakKey, err := authpakFinish(clientPriv, pakHash, serverY)
	if err != nil {
		return nil, err
	}

	rewriteAsTicketRequest(&req)
	if _, err := stream.Write(req[:]); err != nil {
		return nil, err
	}

	status, err = readStatus(stream)
	if err != nil {
		return nil, err
	}
	switch status {
	case authOk:
		// fall through
	case authErr:
		return nil, readPeerError(stream)
	default:
		return nil, &ProtocolError{Reason: "unexpected status byte in dp9ik ticket response"}
	}

	clientTicketBytes, err := readExact(stream, dp9ikTicketLen)
	if err != nil {
		return nil, err
	}
	serverTicketBytes, err := readExact(stream, dp9ikTicketLen)
	if err != nil {
		return nil, err
	}

	var clientTicket [dp9ikTicketLen]byte
	copy(clientTicket[:], clientTicketBytes)
	ticket, err := openDp9ikTicket(clientTicket, pakKey)
	if err != nil {
		return nil, err
	}

	var serverTicket [dp9ikTicketLen]byte
	copy(serverTicket[:], serverTicketBytes)

	return &Dp9ikResult{
		SessionKey:   ticket.Key,
		ServerTicket: serverTicket,
		CUID:         ticket.CUID,
		SUID:         ticket.SUID,
	}, nil
}
