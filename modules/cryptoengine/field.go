// Copyright 2025 Nhat-Nguyen Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cryptoengine

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"unicode/utf8"
)

// EncryptField encrypts a payload field with AES-256-CFB and returns the
// ciphertext as standard base64. The empty string maps to the empty string
// so that absence of a value is never encrypted.
//
// The IV is fixed for the engine's lifetime, which means identical
// plaintexts produce identical ciphertexts and keystream reuse leaks XOR
// relationships between plaintexts. Changing this requires a wire-format
// change for the ciphertext field (nonce stored alongside), so the scheme
// is kept as-is behind the FieldCipher port.
func (e *Engine) EncryptField(plaintext string) string {
	if plaintext == "" {
		return ""
	}

	block, err := aes.NewCipher(e.aesKey)
	if err != nil {
		// Key size is fixed at construction; unreachable.
		return ""
	}

	in := []byte(plaintext)
	out := make([]byte, len(in))
	cipher.NewCFBEncrypter(block, e.aesIV).XORKeyStream(out, in)

	return base64.StdEncoding.EncodeToString(out)
}

// DecryptField is the inverse of EncryptField. Any decoding or decryption
// failure yields the empty string: an unrecoverable field is surfaced as
// absence, not as a verification failure.
func (e *Engine) DecryptField(ciphertext string) string {
	if ciphertext == "" {
		return ""
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return ""
	}

	block, err := aes.NewCipher(e.aesKey)
	if err != nil {
		return ""
	}

	out := make([]byte, len(raw))
	cipher.NewCFBDecrypter(block, e.aesIV).XORKeyStream(out, raw)

	// CFB is unauthenticated, so decrypting under the wrong key succeeds
	// mechanically and yields keystream garbage. Fields are UTF-8 strings;
	// an invalid-UTF-8 result is the one failure signal available, and it
	// degrades to absence like every other failure here.
	if !utf8.Valid(out) {
		return ""
	}

	return string(out)
}
