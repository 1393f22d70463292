package reducer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	apperrors "portfolio-tracker/internal/errors"
)

// envelope is the wire form of an action: {"type": tag, "payload": {...}}.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type decoderFunc func(payload []byte) (Action, error)

var decoders = map[string]decoderFunc{
	TypeAddHolding:           decodeAs[AddHolding],
	TypeUpdateHolding:        decodeAs[UpdateHolding],
	TypeDeleteHolding:        decodeAs[DeleteHolding],
	TypeDuplicateHolding:     decodeAs[DuplicateHolding],
	TypeRecordTrade:          decodeAs[RecordTrade],
	TypeImportTrades:         decodeAs[ImportTrades],
	TypeSetTotal:             decodeAs[SetTotal],
	TypeUnlockTotal:          decodeAs[UnlockTotal],
	TypeUpdateSettings:       decodeAs[UpdateSettings],
	TypeSetBudget:            decodeAs[SetBudget],
	TypeAddListItem:          decodeAs[AddListItem],
	TypeRenameListItem:       decodeAs[RenameListItem],
	TypeRemoveListItem:       decodeAs[RemoveListItem],
	TypeReorderList:          decodeAs[ReorderList],
	TypeSetThemeSection:      decodeAs[SetThemeSection],
	TypeImportHoldings:       decodeAs[ImportHoldings],
	TypeAddPortfolio:         decodeAs[AddPortfolio],
	TypeRemovePortfolio:      decodeAs[RemovePortfolio],
	TypeRenamePortfolio:      decodeAs[RenamePortfolio],
	TypeSelectPortfolio:      decodeAs[SelectPortfolio],
	TypeCreateDraftPortfolio: decodeAs[CreateDraftPortfolio],
	TypePromoteDraft:         decodeAs[PromoteDraftToActual],
	TypeSetPlaygroundEnabled: decodeAs[SetPlaygroundEnabled],
	TypeRestorePlayground:    decodeAs[RestorePlayground],
	TypeUpdateLivePrices:     decodeAs[UpdateLivePrices],
	TypeSetFilter:            decodeAs[SetFilter],
	TypeClearFilters:         decodeAs[ClearFilters],
}

func decodeAs[A Action](payload []byte) (Action, error) {
	var a A
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return a, nil
	}
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, err
	}
	return a, nil
}

// Types returns every known action tag, sorted.
func Types() []string {
	out := make([]string, 0, len(decoders))
	for t := range decoders {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// DecodeAction decodes one action envelope. Unknown tags return an error
// wrapping ErrUnknownAction; malformed JSON wraps ErrInvalidAction.
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, apperrors.NewActionError("", "malformed envelope", apperrors.Wrap(apperrors.ErrInvalidAction, err.Error()))
	}
	decode, ok := decoders[env.Type]
	if !ok {
		return nil, apperrors.NewActionError(env.Type, "decode", apperrors.ErrUnknownAction)
	}
	a, err := decode(env.Payload)
	if err != nil {
		return nil, apperrors.NewActionError(env.Type, "malformed payload", apperrors.Wrap(apperrors.ErrInvalidAction, err.Error()))
	}
	return a, nil
}

// DecodeActions decodes a JSON array of action envelopes.
func DecodeActions(data []byte) ([]Action, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidAction, err.Error())
	}
	out := make([]Action, 0, len(raw))
	for i, r := range raw {
		a, err := DecodeAction(r)
		if err != nil {
			return nil, &DecodeError{Index: i, Err: err}
		}
		out = append(out, a)
	}
	return out, nil
}

// DecodeError reports the position of an action that failed to decode.
type DecodeError struct {
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("action %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeAction encodes a as an envelope.
func EncodeAction(a Action) ([]byte, error) {
	if a == nil {
		return nil, apperrors.NewActionError("", "encode", apperrors.ErrInvalidAction)
	}
	if _, ok := decoders[a.Type()]; !ok {
		return nil, apperrors.NewActionError(a.Type(), "encode", apperrors.ErrUnknownAction)
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, apperrors.NewActionError(a.Type(), "encode", err)
	}
	return json.Marshal(envelope{Type: a.Type(), Payload: payload})
}
