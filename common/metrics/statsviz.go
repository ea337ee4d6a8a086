package metrics

import (
	"fmt"
	"net/http"

	"github.com/arl/statsviz"
)

// NewMux 返回挂载了 statsviz 页面(/debug/statsviz/)的 mux
func NewMux() (*http.ServeMux, error) {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return nil, fmt.Errorf("注册 statsviz 失败: %w", err)
	}
	return mux, nil
}

// Serve 启动运行时监控页面，阻塞直到监听失败
func Serve(addr string) error {
	mux, err := NewMux()
	if err != nil {
		return err
	}
	return http.ListenAndServe(addr, mux)
}
