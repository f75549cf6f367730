package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/bndr/gotabulate"
	"go.uber.org/zap"

	"github.com/goliatone/go-dynaform"
	"github.com/goliatone/go-dynaform/internal/server"
	"github.com/goliatone/go-dynaform/pkg/openapi"
	"github.com/goliatone/go-dynaform/pkg/render"
	"github.com/goliatone/go-dynaform/pkg/renderers/tui"
	"github.com/goliatone/go-dynaform/pkg/values"
)

func newFlagSet(app *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(app.stderr)
	return fs
}

func serveCommand(ctx context.Context, app *app, args []string) error {
	fs := newFlagSet(app, "serve")
	schemaPath := fs.String("schema", "", "Schema path or URL (defaults to schema.path)")
	addr := fs.String("addr", "", "Listen address (defaults to server.host:server.port)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form, err := app.loadForm(ctx, *schemaPath)
	if err != nil {
		return err
	}
	st, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := server.New(form, st,
		server.WithKey(app.cfg.Storage.Key),
		server.WithCookieName(app.cfg.Server.CookieName),
		server.WithSessionTTL(app.cfg.Server.SessionTTL),
		server.WithTheme(app.cfg.Theme.RendererConfig()),
		server.WithLogger(app.logger),
	)
	if err != nil {
		return err
	}

	listen := *addr
	if listen == "" {
		listen = app.cfg.Server.Address()
	}
	httpServer := &http.Server{
		Addr:         listen,
		Handler:      srv.Routes(),
		ReadTimeout:  app.cfg.Server.ReadTimeout,
		WriteTimeout: app.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("serving form", zap.String("addr", listen), zap.String("title", form.Title))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info("initiating graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func fillCommand(ctx context.Context, app *app, args []string) error {
	fs := newFlagSet(app, "fill")
	schemaPath := fs.String("schema", "", "Schema path or URL (defaults to schema.path)")
	key := fs.String("key", "", "Storage key (defaults to storage.key)")
	format := fs.String("format", string(tui.OutputFormatJSON), "Output format: json, form or pretty")
	confirm := fs.Bool("confirm", false, "Ask before submitting")
	attempts := fs.Int("attempts", 3, "Submit attempts before giving up")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form, err := app.loadForm(ctx, *schemaPath)
	if err != nil {
		return err
	}
	st, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	renderer, err := tui.New(
		tui.WithOutput(app.stdout),
		tui.WithOutputFormat(tui.OutputFormat(*format)),
		tui.WithConfirmSubmit(*confirm),
		tui.WithMaxAttempts(*attempts),
		tui.WithLogger(app.logger),
	)
	if err != nil {
		return err
	}

	eng := app.shell(st, *key).Mount(ctx, form)
	out, err := renderer.Fill(ctx, eng)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(app.stdout, string(out))
	return err
}

func renderCommand(ctx context.Context, app *app, args []string) error {
	fs := newFlagSet(app, "render")
	schemaPath := fs.String("schema", "", "Schema path or URL (defaults to schema.path)")
	rendererName := fs.String("renderer", "vanilla", "Renderer: vanilla or json")
	output := fs.String("output", "", "Output file (stdout if empty)")
	withValues := fs.Bool("values", false, "Seed the form with the persisted values")
	standalone := fs.Bool("standalone", true, "Wrap HTML output in a full page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form, err := app.loadForm(ctx, *schemaPath)
	if err != nil {
		return err
	}

	initial := values.Map{}
	if *withValues {
		st, err := app.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		initial = app.shell(st, "").Load(ctx)
	}

	out, err := dynaform.Render(ctx, form, initial, *rendererName, render.RenderOptions{
		Theme:      app.cfg.Theme.RendererConfig(),
		Standalone: *standalone,
	})
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(app.stdout, "Form written to %s\n", *output)
		return nil
	}
	_, err = fmt.Fprintln(app.stdout, string(out))
	return err
}

func openapiCommand(ctx context.Context, app *app, args []string) error {
	fs := newFlagSet(app, "openapi")
	schemaPath := fs.String("schema", "", "Schema path or URL (defaults to schema.path)")
	serverURL := fs.String("server", "", "Server URL to list in the document")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form, err := app.loadForm(ctx, *schemaPath)
	if err != nil {
		return err
	}
	doc := openapi.NewGenerator(form, openapi.WithServer(*serverURL)).Generate()
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("generated document is invalid: %w", err)
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(app.stdout, string(out))
	return err
}

func valuesCommand(ctx context.Context, app *app, args []string) error {
	fs := newFlagSet(app, "values")
	key := fs.String("key", "", "Storage key (defaults to storage.key)")
	asJSON := fs.Bool("json", false, "Print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	m := app.shell(st, *key).Load(ctx)
	if *asJSON {
		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(app.stdout, string(out))
		return err
	}

	if len(m) == 0 {
		_, err = fmt.Fprintln(app.stdout, "no values stored")
		return err
	}
	rows := make([][]any, 0, len(m))
	for _, name := range m.Keys() {
		rows = append(rows, []any{name, m[name].String()})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"Field", "Value"})
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	_, err = fmt.Fprint(app.stdout, t.Render("grid"))
	return err
}
