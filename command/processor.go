package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/faisal-shah/offline-secure-messenger-sub000/appcore"
	"github.com/faisal-shah/offline-secure-messenger-sub000/contact"
	"github.com/faisal-shah/offline-secure-messenger-sub000/crypto"
	"github.com/faisal-shah/offline-secure-messenger-sub000/message"
	"github.com/faisal-shah/offline-secure-messenger-sub000/outbox"
	"github.com/faisal-shah/offline-secure-messenger-sub000/pendingkey"
	"github.com/faisal-shah/offline-secure-messenger-sub000/store"
)

// Processor dispatches one decoded command line against an App and
// returns the response lines, per spec.md §4.8: "each response is one
// or more lines."
type Processor struct {
	App *appcore.App
}

// NewProcessor constructs a Processor driving app.
func NewProcessor(app *appcore.App) *Processor {
	return &Processor{App: app}
}

// Dispatch parses and executes one command line, returning the response
// lines to emit. It never panics on malformed input -- an unrecognized
// line always yields a single CMD:ERR:unknown_command response, per
// spec.md §7's Unknown error kind.
func (p *Processor) Dispatch(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	logger := logrus.WithFields(logrus.Fields{
		"function": "Dispatch",
		"package":  "command",
	})

	if line == "" {
		return []string{errLine("unknown_command")}
	}

	name, rest, hasArg := strings.Cut(line, ":")
	switch name {
	case "IDENTITY":
		return p.identity()
	case "KEYGEN":
		return p.keygen()
	case "ADD":
		return p.add(rest, hasArg)
	case "ASSIGN":
		return p.assign(rest, hasArg)
	case "CREATE":
		return p.create(rest, hasArg)
	case "COMPLETE":
		return p.complete(rest, hasArg)
	case "SEND":
		return p.send(rest, hasArg)
	case "RECV_COUNT":
		return p.recvCount(rest, hasArg)
	case "STATE":
		return p.state()
	default:
		logger.WithFields(logrus.Fields{"line": line}).Warn("unrecognized command")
		return []string{errLine("unknown_command")}
	}
}

func (p *Processor) identity() []string {
	info, err := p.App.IdentityInfo()
	if err != nil {
		return []string{errFor(err)}
	}
	return []string{okLine("IDENTITY", info.PubKeyB64)}
}

func (p *Processor) keygen() []string {
	info, err := p.App.Keygen()
	if err != nil {
		return []string{errFor(err)}
	}
	return []string{okLine("KEYGEN", info.PubKeyB64)}
}

func (p *Processor) add(rest string, hasArg bool) []string {
	if !hasArg || rest == "" {
		return []string{errLine("unknown_command")}
	}
	c, err := p.App.AddContact(rest)
	if err != nil {
		return []string{errFor(err)}
	}
	return []string{okLine("ADD", fmt.Sprintf("%d", c.ID))}
}

func (p *Processor) assign(rest string, hasArg bool) []string {
	if !hasArg || rest == "" {
		return []string{errLine("unknown_command")}
	}
	c, err := p.App.AssignPendingKey(rest)
	if err != nil {
		return []string{errFor(err)}
	}
	return []string{okLine("ASSIGN", fmt.Sprintf("%d", c.ID))}
}

func (p *Processor) create(rest string, hasArg bool) []string {
	if !hasArg || rest == "" {
		return []string{errLine("unknown_command")}
	}
	c, err := p.App.CreateFromPending(rest)
	if err != nil {
		return []string{errFor(err)}
	}
	return []string{okLine("CREATE", fmt.Sprintf("%d", c.ID))}
}

func (p *Processor) complete(rest string, hasArg bool) []string {
	if !hasArg || rest == "" {
		return []string{errLine("unknown_command")}
	}
	c, err := p.App.CompleteExchange(rest)
	if err != nil {
		return []string{errFor(err)}
	}
	return []string{okLine("COMPLETE", fmt.Sprintf("%d", c.ID))}
}

func (p *Processor) send(rest string, hasArg bool) []string {
	if !hasArg {
		return []string{errLine("unknown_command")}
	}
	targetName, plaintext, ok := strings.Cut(rest, ":")
	if !ok || targetName == "" {
		return []string{errLine("unknown_command")}
	}
	msg, err := p.App.SendMessage(targetName, plaintext)
	if err != nil {
		return []string{errFor(err)}
	}
	return []string{okLine("SEND", fmt.Sprintf("%d", msg.ID))}
}

func (p *Processor) recvCount(rest string, hasArg bool) []string {
	if !hasArg || rest == "" {
		return []string{errLine("unknown_command")}
	}
	n, err := p.App.RecvCount(rest)
	if err != nil {
		return []string{errFor(err)}
	}
	return []string{okLine("RECV_COUNT", fmt.Sprintf("%d", n))}
}

func (p *Processor) state() []string {
	s := p.App.State()
	return []string{okLine("STATE", fmt.Sprintf(
		"contacts=%d:messages=%d:pending=%d:outbox=%d:connected=%d:storage_error=%t:storage_full=%t:identity_valid=%t",
		len(s.Contacts), len(s.Messages), s.PendingKeys, s.OutboxLen, s.Connected,
		s.StorageError, s.StorageFull, s.IdentityValid,
	))}
}

func okLine(verb string, fields ...string) string {
	parts := append([]string{"CMD", "OK", verb}, fields...)
	return strings.Join(parts, ":")
}

func errLine(reason string, detail ...string) string {
	parts := append([]string{"CMD", "ERR", reason}, detail...)
	return strings.Join(parts, ":")
}

// errFor maps an internal error to the spec.md §7 error taxonomy token
// the command surface reports.
func errFor(err error) string {
	switch {
	case errors.Is(err, contact.ErrNotFound):
		return errLine("not_found")
	case errors.Is(err, contact.ErrCapacityExceeded),
		errors.Is(err, message.ErrCapacityExceeded),
		errors.Is(err, pendingkey.ErrCapacityExceeded),
		errors.Is(err, outbox.ErrCapacityExceeded):
		return errLine("capacity_exceeded")
	case errors.Is(err, contact.ErrDuplicatePublicKey):
		return errLine("duplicate_public_key")
	case errors.Is(err, contact.ErrNameTooLong):
		return errLine("name_too_long")
	case errors.Is(err, appcore.ErrNotEstablished):
		return errLine("not_established")
	case errors.Is(err, appcore.ErrNoIdentity):
		return errLine("no_identity")
	case errors.Is(err, appcore.ErrIdentityExists):
		return errLine("identity_exists")
	case errors.Is(err, appcore.ErrNoPendingKeys):
		return errLine("no_pending_keys")
	case errors.Is(err, crypto.ErrInvalidPubKey), errors.Is(err, crypto.ErrAuthFailed):
		return errLine("auth_failed")
	case errors.Is(err, store.ErrNoSpace):
		return errLine("storage_full")
	case errors.Is(err, store.ErrIo):
		return errLine("storage_error")
	default:
		return errLine("unknown_command", err.Error())
	}
}
