// pkg/health/health.go
package health

import "net/http"

// Handler возвращает ответ "OK" для проверки работоспособности сервера.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
