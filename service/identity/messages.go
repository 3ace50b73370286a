// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"fmt"

	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/lib/peer"
)

// Fixed prefix sizes, header excluded.
const (
	// name_len, end_of_list/reserved, private key.
	keyedPrefixSize = 2 + 2 + peer.KeySize
	// name_len, reserved.
	namePrefixSize = 2 + 2
	// result_code.
	resultPrefixSize = 4
)

// maxNameSize bounds a name so that the largest request carrying it,
// with its terminator, fits one message.
const maxNameSize = message.MaxBodySize - keyedPrefixSize - 1

// nameLength returns the wire name_len of name: its size plus the NUL.
func nameLength(name string) (uint16, error) {
	if len(name) > maxNameSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(name))
	}
	return uint16(len(name) + 1), nil
}

// updateMessage is IDENTITY_UPDATE.
type updateMessage struct {
	ego       Ego
	endOfList bool
}

func (*updateMessage) MessageType() msgtype.Type { return msgtype.IdentityUpdate }

func (m *updateMessage) DecodeBody(body []byte) error {
	r := message.NewReader(body)
	nameSize := r.Uint16("name_len")
	m.endOfList = r.Uint16("end_of_list") != 0
	if r.Err() == nil && m.endOfList {
		return nil
	}
	r.Copy("private_key", m.ego.PrivateKey[:])
	m.ego.Name = r.SizedCString("name", int(nameSize))
	return r.End()
}

// setDefaultMessage is IDENTITY_SET_DEFAULT in either direction.
type setDefaultMessage struct {
	subsystem string
	key       peer.PrivateKey
}

func (*setDefaultMessage) MessageType() msgtype.Type { return msgtype.IdentitySetDefault }

func (m *setDefaultMessage) DecodeBody(body []byte) error {
	r := message.NewReader(body)
	nameSize := r.Uint16("name_len")
	if reserved := r.Uint16("reserved"); reserved != 0 && r.Err() == nil {
		r.Fail("reserved", "reserved field is not zero")
	}
	r.Copy("private_key", m.key[:])
	if nameSize == 0 && r.Err() == nil {
		r.Fail("name_len", "subsystem name is empty")
	}
	m.subsystem = r.SizedCString("name", int(nameSize))
	return r.End()
}

// resultCodeMessage is IDENTITY_RESULT_CODE.
type resultCodeMessage struct {
	code uint32
	text string
}

func (*resultCodeMessage) MessageType() msgtype.Type { return msgtype.IdentityResultCode }

func (m *resultCodeMessage) DecodeBody(body []byte) error {
	prefix, text, err := message.ParsePrefixAndString(body, resultPrefixSize)
	if err != nil {
		return err
	}
	m.code = message.NewReader(prefix).Uint32("result_code")
	m.text = text
	return nil
}

// err converts a result code into the operation's error.
func (m *resultCodeMessage) err() error {
	if m.code == 0 {
		return nil
	}
	return &ServiceError{Code: m.code, Message: m.text}
}

func newStartMessage() *message.Fixed {
	return message.MustFixed(msgtype.IdentityStart, nil)
}

// newNamedMessage builds a message whose body is name_len, a zero
// reserved word and the name.
func newNamedMessage(typ msgtype.Type, name string) (*message.Compound, error) {
	size, err := nameLength(name)
	if err != nil {
		return nil, err
	}
	prefix := message.NewBuilder(namePrefixSize).Uint16(size).Uint16(0).Bytes()
	return message.NewStringMessage(typ, prefix, name)
}

// newKeyedMessage builds a message whose body is name_len, a zero
// reserved word, a private key and the name.
func newKeyedMessage(typ msgtype.Type, name string, key peer.PrivateKey) (*message.Compound, error) {
	size, err := nameLength(name)
	if err != nil {
		return nil, err
	}
	prefix := message.NewBuilder(keyedPrefixSize).Uint16(size).Uint16(0).Raw(key[:]).Bytes()
	return message.NewStringMessage(typ, prefix, name)
}

func newRenameMessage(oldName, newName string) (*message.Compound, error) {
	oldSize, err := nameLength(oldName)
	if err != nil {
		return nil, err
	}
	newSize, err := nameLength(newName)
	if err != nil {
		return nil, err
	}
	if int(oldSize)+int(newSize) > message.MaxBodySize-namePrefixSize {
		return nil, fmt.Errorf("%w: %d bytes combined", ErrNameTooLong, len(oldName)+len(newName))
	}
	prefix := message.NewBuilder(namePrefixSize).Uint16(oldSize).Uint16(newSize).Bytes()
	return message.NewCompound(msgtype.IdentityRename, prefix,
		[]byte(oldName), []byte{0}, []byte(newName), []byte{0})
}
