package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient はマーケットデータAPI呼び出し用に設定されたHTTPクライアントを作成します。
//
// http.DefaultClientにはタイムアウトがないため、外部呼び出しには必ず
// このクライアントを使用します。外部プロバイダーは1ホストのみのため、
// アイドル接続のプールは小さく保ちます。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        16,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     2 * time.Minute,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
