package code

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Codes for contract and host responses
const (
	// general
	OK                uint32 = 0
	DecodeError       uint32 = 106
	InsufficientFunds uint32 = 107
	InvalidAddress    uint32 = 130
	InvalidDecimal    uint32 = 131
	InvalidAmount     uint32 = 132
	NoFunds           uint32 = 133
	WrongDenom        uint32 = 134
	MultipleDenoms    uint32 = 135
	UnknownMessage    uint32 = 136
	UnsupportedQuery  uint32 = 137
	InvalidDenom      uint32 = 138

	// host
	CodeNotFound     uint32 = 201
	ContractNotFound uint32 = 202
	MaxDepthExceeded uint32 = 203

	// membership
	Unauthorized                 uint32 = 701
	AlreadyAMember               uint32 = 702
	AlreadyVoted                 uint32 = 703
	NotEnoughInitialMembers      uint32 = 704
	NotEnoughRequiredAcceptances uint32 = 705
	DuplicatedInitialMember      uint32 = 706
	DistributionAlreadySet       uint32 = 707

	// proxy
	ProxyClosed          uint32 = 801
	WithdrawalInProgress uint32 = 802
	DistributionNotSet   uint32 = 803

	// continuation protocol
	MissingData         uint32 = 901
	UnrecognizedReplyID uint32 = 902
	MissingPendingState uint32 = 903
	BarrierViolation    uint32 = 904
	SubOperationFailed  uint32 = 905
)

// Error is a coded failure of a contract entry point or of the host itself.
// Info holds the structured details and is rendered with EncodeInfo.
type Error struct {
	Code uint32
	Log  string
	Info interface{}
}

func (e *Error) Error() string {
	return e.Log
}

// EncodeInfo encodes error details to json
func (e *Error) EncodeInfo() string {
	if e.Info == nil {
		return ""
	}
	marshaled, err := json.Marshal(e.Info)
	if err != nil {
		panic(err)
	}
	return string(marshaled)
}

func newError(c uint32, info interface{}, format string, args ...interface{}) *Error {
	return &Error{Code: c, Log: fmt.Sprintf(format, args...), Info: info}
}

// Of returns the code carried by err, OK for nil and DecodeError for foreign errors.
func Of(err error) uint32 {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return DecodeError
}

// Is reports whether err carries code c.
func Is(err error, c uint32) bool {
	return err != nil && Of(err) == c
}

type decodeError struct {
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func NewDecodeError(reason string) *Error {
	return newError(DecodeError, &decodeError{Code: strconv.Itoa(int(DecodeError)), Reason: reason}, "Decode error: %s", reason)
}

type insufficientFunds struct {
	Code        string `json:"code,omitempty"`
	Sender      string `json:"sender,omitempty"`
	NeededValue string `json:"needed_value,omitempty"`
	HasValue    string `json:"has_value,omitempty"`
	Denom       string `json:"denom,omitempty"`
}

func NewInsufficientFunds(sender, neededValue, hasValue, denom string) *Error {
	return newError(InsufficientFunds,
		&insufficientFunds{Code: strconv.Itoa(int(InsufficientFunds)), Sender: sender, NeededValue: neededValue, HasValue: hasValue, Denom: denom},
		"Insufficient funds for account %s: wanted %s%s, has %s%s", sender, neededValue, denom, hasValue, denom)
}

type invalidAddress struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func NewInvalidAddress(address, reason string) *Error {
	return newError(InvalidAddress, &invalidAddress{Code: strconv.Itoa(int(InvalidAddress)), Address: address, Reason: reason}, "Invalid address %q: %s", address, reason)
}

type invalidDecimal struct {
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

func NewInvalidDecimal(field, value string) *Error {
	return newError(InvalidDecimal, &invalidDecimal{Code: strconv.Itoa(int(InvalidDecimal)), Field: field, Value: value}, "Invalid decimal for %s: %q", field, value)
}

type invalidAmount struct {
	Code   string `json:"code,omitempty"`
	Amount string `json:"amount,omitempty"`
}

func NewInvalidAmount(amount string) *Error {
	return newError(InvalidAmount, &invalidAmount{Code: strconv.Itoa(int(InvalidAmount)), Amount: amount}, "Invalid amount %q", amount)
}

type invalidDenom struct {
	Code  string `json:"code,omitempty"`
	Denom string `json:"denom"`
}

func NewInvalidDenom(denom string) *Error {
	return newError(InvalidDenom, &invalidDenom{Code: strconv.Itoa(int(InvalidDenom)), Denom: denom}, "Invalid denom %q", denom)
}

type fundsError struct {
	Code     string `json:"code,omitempty"`
	Expected string `json:"expected_denom,omitempty"`
	Got      string `json:"got,omitempty"`
}

func NewNoFunds(denom string) *Error {
	return newError(NoFunds, &fundsError{Code: strconv.Itoa(int(NoFunds)), Expected: denom}, "No funds sent")
}

func NewWrongDenom(expected, got string) *Error {
	return newError(WrongDenom, &fundsError{Code: strconv.Itoa(int(WrongDenom)), Expected: expected, Got: got}, "Must send reserve token %q, got %q", expected, got)
}

func NewMultipleDenoms(expected, got string) *Error {
	return newError(MultipleDenoms, &fundsError{Code: strconv.Itoa(int(MultipleDenoms)), Expected: expected, Got: got}, "Sent more than one denomination: %s", got)
}

type unknownMessage struct {
	Code     string `json:"code,omitempty"`
	Contract string `json:"contract,omitempty"`
}

func NewUnknownMessage(contract string) *Error {
	return newError(UnknownMessage, &unknownMessage{Code: strconv.Itoa(int(UnknownMessage)), Contract: contract}, "Unknown message for %s", contract)
}

func NewUnsupportedQuery(contract string) *Error {
	return newError(UnsupportedQuery, &unknownMessage{Code: strconv.Itoa(int(UnsupportedQuery)), Contract: contract}, "Unsupported query for %s", contract)
}

type codeNotFound struct {
	Code   string `json:"code,omitempty"`
	CodeID string `json:"code_id,omitempty"`
}

func NewCodeNotFound(codeID string) *Error {
	return newError(CodeNotFound, &codeNotFound{Code: strconv.Itoa(int(CodeNotFound)), CodeID: codeID}, "Code %s not found", codeID)
}

type contractNotFound struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
}

func NewContractNotFound(address string) *Error {
	return newError(ContractNotFound, &contractNotFound{Code: strconv.Itoa(int(ContractNotFound)), Address: address}, "Contract %s not found", address)
}

type maxDepthExceeded struct {
	Code     string `json:"code,omitempty"`
	MaxDepth string `json:"max_depth,omitempty"`
}

func NewMaxDepthExceeded(maxDepth string) *Error {
	return newError(MaxDepthExceeded, &maxDepthExceeded{Code: strconv.Itoa(int(MaxDepthExceeded)), MaxDepth: maxDepth}, "Sub-operation depth is over %s", maxDepth)
}

type unauthorized struct {
	Code   string `json:"code,omitempty"`
	Sender string `json:"sender,omitempty"`
}

func NewUnauthorized(sender string) *Error {
	return newError(Unauthorized, &unauthorized{Code: strconv.Itoa(int(Unauthorized)), Sender: sender}, "Unauthorized")
}

type alreadyAMember struct {
	Code      string `json:"code,omitempty"`
	Candidate string `json:"candidate,omitempty"`
	Proxy     string `json:"proxy,omitempty"`
}

func NewAlreadyAMember(candidate, proxy string) *Error {
	return newError(AlreadyAMember, &alreadyAMember{Code: strconv.Itoa(int(AlreadyAMember)), Candidate: candidate, Proxy: proxy}, "Cannot propose a member: %s already owns %s", candidate, proxy)
}

type alreadyVoted struct {
	Code      string `json:"code,omitempty"`
	Voter     string `json:"voter,omitempty"`
	Candidate string `json:"candidate,omitempty"`
}

func NewAlreadyVoted(voter, candidate string) *Error {
	return newError(AlreadyVoted, &alreadyVoted{Code: strconv.Itoa(int(AlreadyVoted)), Voter: voter, Candidate: candidate}, "Already voted on this proposal")
}

type notEnoughInitialMembers struct {
	Code     string `json:"code,omitempty"`
	Needed   string `json:"needed,omitempty"`
	Received string `json:"received,omitempty"`
}

func NewNotEnoughInitialMembers(needed, received string) *Error {
	return newError(NotEnoughInitialMembers, &notEnoughInitialMembers{Code: strconv.Itoa(int(NotEnoughInitialMembers)), Needed: needed, Received: received}, "Not enough initial members. Needed %s, has %s", needed, received)
}

type notEnoughRequiredAcceptances struct {
	Code    string `json:"code,omitempty"`
	Minimal string `json:"minimal,omitempty"`
	Got     string `json:"got,omitempty"`
}

func NewNotEnoughRequiredAcceptances(minimal, got string) *Error {
	return newError(NotEnoughRequiredAcceptances, &notEnoughRequiredAcceptances{Code: strconv.Itoa(int(NotEnoughRequiredAcceptances)), Minimal: minimal, Got: got}, "Not enough required acceptances. Minimal %s, got %s", minimal, got)
}

type duplicatedInitialMember struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
}

func NewDuplicatedInitialMember(address string) *Error {
	return newError(DuplicatedInitialMember, &duplicatedInitialMember{Code: strconv.Itoa(int(DuplicatedInitialMember)), Address: address}, "Duplicated initial member %s", address)
}

type distributionAlreadySet struct {
	Code    string `json:"code,omitempty"`
	Current string `json:"current,omitempty"`
}

func NewDistributionAlreadySet(current string) *Error {
	return newError(DistributionAlreadySet, &distributionAlreadySet{Code: strconv.Itoa(int(DistributionAlreadySet)), Current: current}, "Distribution contract is already set to %s", current)
}

type proxyClosed struct {
	Code  string `json:"code,omitempty"`
	Proxy string `json:"proxy,omitempty"`
}

func NewProxyClosed(proxy string) *Error {
	return newError(ProxyClosed, &proxyClosed{Code: strconv.Itoa(int(ProxyClosed)), Proxy: proxy}, "Proxy %s is closed", proxy)
}

type withdrawalInProgress struct {
	Code     string `json:"code,omitempty"`
	Receiver string `json:"receiver,omitempty"`
}

func NewWithdrawalInProgress(receiver string) *Error {
	return newError(WithdrawalInProgress, &withdrawalInProgress{Code: strconv.Itoa(int(WithdrawalInProgress)), Receiver: receiver}, "Withdrawal to %s is already pending", receiver)
}

type distributionNotSet struct {
	Code  string `json:"code,omitempty"`
	Proxy string `json:"proxy,omitempty"`
}

func NewDistributionNotSet(proxy string) *Error {
	return newError(DistributionNotSet, &distributionNotSet{Code: strconv.Itoa(int(DistributionNotSet)), Proxy: proxy}, "Distribution contract is not set for %s", proxy)
}

type missingData struct {
	Code    string `json:"code,omitempty"`
	ReplyID string `json:"reply_id,omitempty"`
}

func NewMissingData(replyID string) *Error {
	return newError(MissingData, &missingData{Code: strconv.Itoa(int(MissingData)), ReplyID: replyID}, "Missing data in reply %s", replyID)
}

type unrecognizedReplyID struct {
	Code    string `json:"code,omitempty"`
	ReplyID string `json:"reply_id,omitempty"`
}

func NewUnrecognizedReplyID(replyID string) *Error {
	return newError(UnrecognizedReplyID, &unrecognizedReplyID{Code: strconv.Itoa(int(UnrecognizedReplyID)), ReplyID: replyID}, "Unknown reply id %s", replyID)
}

type missingPendingState struct {
	Code string `json:"code,omitempty"`
	Key  string `json:"key,omitempty"`
}

func NewMissingPendingState(key string) *Error {
	return newError(MissingPendingState, &missingPendingState{Code: strconv.Itoa(int(MissingPendingState)), Key: key}, "Missing pending state %q", key)
}

type barrierViolation struct {
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func NewBarrierViolation(reason string) *Error {
	return newError(BarrierViolation, &barrierViolation{Code: strconv.Itoa(int(BarrierViolation)), Reason: reason}, "Barrier violation: %s", reason)
}

type subOperationFailed struct {
	Code    string `json:"code,omitempty"`
	ReplyID string `json:"reply_id,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func NewSubOperationFailed(replyID, reason string) *Error {
	return newError(SubOperationFailed, &subOperationFailed{Code: strconv.Itoa(int(SubOperationFailed)), ReplyID: replyID, Reason: reason}, "Sub-operation %s failed: %s", replyID, reason)
}
