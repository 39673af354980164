package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	appconfig "github.com/heralf/legal-leads/internal/config"
	"github.com/heralf/legal-leads/internal/webform"
	"github.com/heralf/legal-leads/pkg/logging"
)

// terminalView renders the submission lifecycle on stdout, standing in for
// the landing page's button/message area.
type terminalView struct{}

func (terminalView) Loading() {
	fmt.Println("Enviando...")
}

func (terminalView) Success(receipt *webform.Receipt) {
	fmt.Println("✓ Solicitud Enviada")
	fmt.Println(receipt.Message)
	fmt.Printf("ID de tu solicitud: %s\n", receipt.LeadID)
}

func (terminalView) Failure(err *webform.SubmitError) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)
	fmt.Fprintln(os.Stderr, err.Hint)
}

func (terminalView) Reset() {}

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.NewText("error")

	var (
		url         = flag.String("url", cfg.SubmitURL, "form endpoint URL")
		name        = flag.String("nombre", "", "full name")
		email       = flag.String("email", "", "contact email")
		phone       = flag.String("telefono", "", "contact phone")
		serviceType = flag.String("servicio", "", "requested legal service")
		description = flag.String("descripcion", "", "case description")
		timeout     = flag.Duration("timeout", cfg.SubmitTimeout, "submission timeout")
	)
	flag.Parse()

	if *url == "" {
		logger.Error("missing form endpoint URL")
		fmt.Fprintln(os.Stderr, "usage: submit-lead -url <endpoint> -nombre ... -email ... -telefono ... -servicio ... -descripcion ...")
		os.Exit(2)
	}

	client := webform.NewClient(*url, *timeout)
	submitter := webform.NewSubmitter(client, terminalView{})

	fields := webform.Fields{
		Name:        *name,
		Email:       *email,
		Phone:       *phone,
		ServiceType: *serviceType,
		Description: *description,
	}

	// No client-side validation: the server decides what is acceptable and
	// its field-level errors are printed as-is.
	if _, err := submitter.Submit(context.Background(), fields); err != nil {
		os.Exit(1)
	}
}
