package auth

import (
	"bytes"
	"crypto/cipher"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// Conn encrypts every Write as one length-prefixed ChaCha20-Poly1305 packet:
//
//	length:u32be nonce[12] ciphertext
//
// The nonce carries a per-direction send counter.
type Conn struct {
	net.Conn
	aead    cipher.AEAD
	sendCtr uint64
	recvBuf bytes.Buffer
	mu      sync.Mutex
}

const (
	nonceSize     = chacha20poly1305.NonceSize
	maxPacketSize = 1 << 20
)

// WrapConn returns conn secured with the given 32-byte session key.
func WrapConn(conn net.Conn, sessionKey []byte) (net.Conn, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn, aead: aead}, nil
}

func (s *Conn) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pkt := make([]byte, 4+nonceSize, 4+nonceSize+len(p)+s.aead.Overhead())
	binary.BigEndian.PutUint64(pkt[4+nonceSize-8:4+nonceSize], s.sendCtr)
	s.sendCtr++
	pkt = s.aead.Seal(pkt, pkt[4:4+nonceSize], p, nil)
	binary.BigEndian.PutUint32(pkt[0:4], uint32(len(pkt)-4))

	if _, err := s.Conn.Write(pkt); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *Conn) Read(p []byte) (int, error) {
	if s.recvBuf.Len() == 0 {
		var hdr [4]byte
		if _, err := io.ReadFull(s.Conn, hdr[:]); err != nil {
			return 0, err
		}
		length := binary.BigEndian.Uint32(hdr[:])
		if length < nonceSize || length > maxPacketSize {
			return 0, io.ErrUnexpectedEOF
		}

		pkt := make([]byte, length)
		if _, err := io.ReadFull(s.Conn, pkt); err != nil {
			return 0, err
		}

		pt, err := s.aead.Open(nil, pkt[:nonceSize], pkt[nonceSize:], nil)
		if err != nil {
			return 0, err
		}
		s.recvBuf.Write(pt)
	}
	return s.recvBuf.Read(p)
}
