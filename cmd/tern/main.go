// Package main provides the Tern ML library CLI.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/tern-ml/tern/graph"
	"github.com/tern-ml/tern/nn"
	"github.com/tern-ml/tern/optim"
	"github.com/tern-ml/tern/tensor"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Tern ML %s\n", version)
			return
		case "demo":
			if err := runDemo(); err != nil {
				log.Fatal(err)
			}
			return
		}
	}

	fmt.Println("Tern ML - Adaptive optimization for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Minimize a toy quadratic with Adagrad")
}

// runDemo minimizes f(x) = x² from x=5 with Adagrad, first stepping
// immediately and then through a recorded graph block.
func runDemo() error {
	x, err := tensor.FromFloat32([]float32{5.0}, tensor.Shape{1}, tensor.CPU)
	if err != nil {
		return err
	}
	param := nn.NewParameter("x", x)

	optimizer, err := optim.NewAdagrad([]*nn.Parameter{param}, optim.AdagradConfig{LR: 1.0})
	if err != nil {
		return err
	}

	registry := graph.NewRegistry()
	optim.RegisterAdagradKernel(registry)
	executor := graph.NewExecutor(registry)

	for step := 1; step <= 20; step++ {
		// grad of x² is 2x.
		grad, err := tensor.FromFloat32([]float32{2 * x.AsFloat32()[0]}, tensor.Shape{1}, tensor.CPU)
		if err != nil {
			return err
		}
		grads := map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor(): grad}

		if step%2 == 1 {
			err = optimizer.Step(grads)
		} else {
			block := graph.NewBlock()
			if err = optimizer.StepGraph(block, grads); err == nil {
				err = executor.Run(block)
			}
		}
		if err != nil {
			return err
		}
		optimizer.ZeroGrad()

		log.WithFields(log.Fields{"step": step, "x": x.AsFloat32()[0]}).Info("adagrad step")
	}
	return nil
}
