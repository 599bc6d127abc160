// Package wire encodes the per-tick state snapshots exchanged by the two
// peers. A record is one JSON object with fixed keys; the receiver scans the
// raw stream for balanced braces and only decodes the newest record.
package wire

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"netpong/internal/pong"
)

var (
	ErrNoRecord  = errors.New("no complete record")
	ErrMalformed = errors.New("malformed record")
)

const (
	keyPaddle1 = "paddle1_xy"
	keyPaddle2 = "paddle2_xy"
	keyBall    = "ball_xy"
	keyState   = "game_state"
	keyScore   = "score"
	keyLives   = "lives"
)

// AuthorityState is published by the authority every tick.
type AuthorityState struct {
	Paddle1 pong.Vector
	Ball    pong.Vector
	Status  pong.Status
	Score   int
	Lives   int
}

// ParticipantState is published by the participant every tick.
type ParticipantState struct {
	Paddle2 pong.Vector
}

func EncodeAuthority(s AuthorityState) ([]byte, error) {
	if _, err := pong.ParseStatus(s.Status.String()); err != nil {
		return nil, fmt.Errorf("encode authority state: %w", err)
	}
	return encode(map[string]any{
		keyPaddle1: point(s.Paddle1),
		keyBall:    point(s.Ball),
		keyState:   s.Status.String(),
		keyScore:   s.Score,
		keyLives:   s.Lives,
	})
}

func EncodeParticipant(s ParticipantState) ([]byte, error) {
	return encode(map[string]any{
		keyPaddle2: point(s.Paddle2),
	})
}

// DecodeAuthority decodes the newest authority record found in b.
func DecodeAuthority(b []byte) (AuthorityState, error) {
	fields, err := decode(b)
	if err != nil {
		return AuthorityState{}, err
	}

	var s AuthorityState
	if s.Paddle1, err = pointField(fields, keyPaddle1); err != nil {
		return AuthorityState{}, err
	}
	if s.Ball, err = pointField(fields, keyBall); err != nil {
		return AuthorityState{}, err
	}
	name, err := stringField(fields, keyState)
	if err != nil {
		return AuthorityState{}, err
	}
	if s.Status, err = pong.ParseStatus(name); err != nil {
		return AuthorityState{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if s.Score, err = countField(fields, keyScore); err != nil {
		return AuthorityState{}, err
	}
	if s.Lives, err = countField(fields, keyLives); err != nil {
		return AuthorityState{}, err
	}
	return s, nil
}

// DecodeParticipant decodes the newest participant record found in b.
func DecodeParticipant(b []byte) (ParticipantState, error) {
	fields, err := decode(b)
	if err != nil {
		return ParticipantState{}, err
	}
	p, err := pointField(fields, keyPaddle2)
	if err != nil {
		return ParticipantState{}, err
	}
	return ParticipantState{Paddle2: p}, nil
}

func point(v pong.Vector) []any {
	return []any{v.X, v.Y}
}

func encode(fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build record: %w", err)
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return b, nil
}

func decode(b []byte) (map[string]*structpb.Value, error) {
	rec, err := LastRecord(b)
	if err != nil {
		return nil, err
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(rec, s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s.GetFields(), nil
}

func field(fields map[string]*structpb.Value, key string) (*structpb.Value, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformed, key)
	}
	return v, nil
}

func stringField(fields map[string]*structpb.Value, key string) (string, error) {
	v, err := field(fields, key)
	if err != nil {
		return "", err
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a string", ErrMalformed, key)
	}
	return s.StringValue, nil
}

func intValue(v *structpb.Value, key string) (int, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformed, key)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: %q is not an integer: %v", ErrMalformed, key, f)
	}
	return int(f), nil
}

// countField reads a non negative integer such as the score or lives.
func countField(fields map[string]*structpb.Value, key string) (int, error) {
	v, err := field(fields, key)
	if err != nil {
		return 0, err
	}
	n, err := intValue(v, key)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %q is negative: %d", ErrMalformed, key, n)
	}
	return n, nil
}

func pointField(fields map[string]*structpb.Value, key string) (pong.Vector, error) {
	v, err := field(fields, key)
	if err != nil {
		return pong.Vector{}, err
	}
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok || len(list.ListValue.GetValues()) != 2 {
		return pong.Vector{}, fmt.Errorf("%w: %q is not an [x, y] pair", ErrMalformed, key)
	}
	xy := list.ListValue.GetValues()
	x, err := intValue(xy[0], key)
	if err != nil {
		return pong.Vector{}, err
	}
	y, err := intValue(xy[1], key)
	if err != nil {
		return pong.Vector{}, err
	}
	return pong.Vector{X: x, Y: y}, nil
}
