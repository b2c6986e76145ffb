// Package adaptive provides authenticated encryption for snapshot files.
//
// Two AEADs are supported: XChaCha20-Poly1305 (the default; its 24-byte
// nonce is safe to draw at random for any number of files) and AES-256-GCM
// for hosts that want hardware AES. The nonce is prepended to every
// ciphertext.
//
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt(plaintext, header)
//	plain, err := c.Decrypt(sealed, header)
package adaptive
