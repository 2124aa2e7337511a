package service

import (
	"fmt"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
	"github.com/yndnr/aaamesh-go/pkg/bytebuf"
	"github.com/yndnr/aaamesh-go/pkg/codec"
)

// RegisterCodecs registers the Session and Claim codecs with reg.
// Calling it twice on the same registry is a no-op.
func RegisterCodecs(reg *codec.Registry) error {
	if err := codec.RegisterFuncs(reg, encodeSession, decodeSession); err != nil {
		return fmt.Errorf("register session codec: %w", err)
	}
	if err := codec.RegisterFuncs(reg, encodeClaim, decodeClaim); err != nil {
		return fmt.Errorf("register claim codec: %w", err)
	}
	return nil
}

// Session layout: id, user_id, domain, client_ip, expires_at, active.
func encodeSession(buf *bytebuf.Buffer, s *domain.Session) error {
	if err := codec.PutRawString(buf, s.ID); err != nil {
		return err
	}
	for _, f := range []*string{s.UserID, s.Domain, s.ClientIP} {
		if err := codec.PutString(buf, f); err != nil {
			return err
		}
	}
	if err := codec.PutInt64(buf, s.ExpiresAt); err != nil {
		return err
	}
	return codec.PutBool(buf, s.Active)
}

func decodeSession(buf *bytebuf.Buffer) (*domain.Session, error) {
	var (
		s   domain.Session
		err error
	)
	if s.ID, err = codec.GetRawString(buf); err != nil {
		return nil, err
	}
	for _, f := range []**string{&s.UserID, &s.Domain, &s.ClientIP} {
		if *f, err = codec.GetString(buf); err != nil {
			return nil, err
		}
	}
	if s.ExpiresAt, err = codec.GetInt64(buf); err != nil {
		return nil, err
	}
	if s.Active, err = codec.GetBool(buf); err != nil {
		return nil, err
	}
	return &s, nil
}

// Claim layout: id, client_id, user_id, user, domain, roles.
func encodeClaim(buf *bytebuf.Buffer, c *domain.Claim) error {
	if err := codec.PutRawString(buf, c.ID); err != nil {
		return err
	}
	for _, f := range []*string{c.ClientID, c.UserID, c.User, c.Domain} {
		if err := codec.PutString(buf, f); err != nil {
			return err
		}
	}
	return codec.PutStrings(buf, c.Roles)
}

func decodeClaim(buf *bytebuf.Buffer) (*domain.Claim, error) {
	var (
		c   domain.Claim
		err error
	)
	if c.ID, err = codec.GetRawString(buf); err != nil {
		return nil, err
	}
	for _, f := range []**string{&c.ClientID, &c.UserID, &c.User, &c.Domain} {
		if *f, err = codec.GetString(buf); err != nil {
			return nil, err
		}
	}
	if c.Roles, err = codec.GetStrings(buf); err != nil {
		return nil, err
	}
	return &c, nil
}
