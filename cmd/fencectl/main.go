// fencectl tareas de operación: migraciones, carga de datos de referencia y tokens de prueba.
//
// Uso:
//
//	go run ./cmd/fencectl migrate up
//	go run ./cmd/fencectl seed --file reference.yaml
//	go run ./cmd/fencectl token --actor u-1 --role manager
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := Execute(ctx); err != nil {
		os.Exit(1)
	}
}
