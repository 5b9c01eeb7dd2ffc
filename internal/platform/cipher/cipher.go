package cipher

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
)

// AESCipher はAES-128-CBC + PKCS#7パディングによる認証情報の対称暗号化を実装します。
//
// キーとIVはプロセス起動時に設定から読み込まれ、以後変更されません。
// 全レコードで同一のIVを使うため、同じ平文は常に同じ暗号文になります。
// これは既知の弱点ですが、保存済みデータとの互換性のため動作を維持しています。
type AESCipher struct {
	block cipher.Block
	iv    []byte
}

// New は指定された設定でAESCipherの新しいインスタンスを生成します。
// キーまたはIVが欠落している、もしくは16バイトでない場合はエラーを返します。
// 起動時に呼び出し、失敗した場合はプロセスを開始してはいけません。
func New(cfg Config) (*AESCipher, error) {
	if cfg.Key == "" || cfg.IV == "" {
		return nil, errors.New("cipher: encryption key and IV must not be empty")
	}
	if len(cfg.Key) != aes.BlockSize {
		return nil, fmt.Errorf("cipher: key must be %d bytes, got %d", aes.BlockSize, len(cfg.Key))
	}
	if len(cfg.IV) != aes.BlockSize {
		return nil, fmt.Errorf("cipher: IV must be %d bytes, got %d", aes.BlockSize, len(cfg.IV))
	}

	block, err := aes.NewCipher([]byte(cfg.Key))
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	return &AESCipher{block: block, iv: []byte(cfg.IV)}, nil
}

// Encrypt は平文を暗号化し、base64エンコードした暗号文を返します。
// 固定キー・固定IVのため出力は決定的です。
func (c *AESCipher) Encrypt(plaintext string) (string, error) {
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(encrypted, padded)
	return base64.StdEncoding.EncodeToString(encrypted), nil
}

// Decrypt はbase64エンコードされた暗号文を復号し、平文を返します。
// base64として不正、長さがブロックサイズの倍数でない、またはパディングが
// 壊れている場合はエラーを返します。
func (c *AESCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("cipher: invalid base64: %w", err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", errors.New("cipher: ciphertext is not a multiple of the block size")
	}

	decrypted := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(decrypted, raw)

	unpadded, err := pkcs7Unpad(decrypted, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

// pkcs7Pad はPKCS#7方式でブロックサイズの倍数までパディングを追加します。
func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

// pkcs7Unpad はPKCS#7パディングを検証した上で取り除きます。
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("cipher: empty plaintext")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, errors.New("cipher: invalid padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("cipher: invalid padding")
		}
	}
	return data[:len(data)-padding], nil
}
