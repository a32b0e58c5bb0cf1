// import_ledger carga en el libro de ventas un histórico en CSV (mismo formato que /export.csv),
// por ejemplo ventas anteriores a la adopción de la aplicación.
//
// Uso: go run ./cmd/import_ledger -owner <owner_id> [-encoding sjis] [-dry-run] ventas.csv
//
// Artículos y canales se resuelven por nombre contra el catálogo del propietario; las entradas
// sin coincidencia se guardan solo con el nombre. Todo el archivo se escribe como un único lote.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/period"
	"github.com/428lab/sales-aggregator/internal/infrastructure/postgres"
	"github.com/428lab/sales-aggregator/pkg/config"
	"github.com/428lab/sales-aggregator/pkg/logger"
)

func main() {
	owner := flag.String("owner", "", "owner_id propietario del libro")
	encoding := flag.String("encoding", "utf8", "codificación del archivo: utf8 | sjis")
	dryRun := flag.Bool("dry-run", false, "solo valida y resume, no escribe")
	flag.Parse()

	if *owner == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: import_ledger -owner <owner_id> [-encoding sjis] [-dry-run] archivo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import_ledger"})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	r, err := decodeReader(f, *encoding)
	if err != nil {
		log.Fatal().Err(err).Msg("encoding")
	}
	rows, err := parseRows(r)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	items, err := postgres.NewItemRepository(pool).ListByOwner(ctx, *owner)
	if err != nil {
		log.Fatal().Err(err).Msg("leer artículos")
	}
	platforms, err := postgres.NewPlatformRepository(pool).ListByOwner(ctx, *owner)
	if err != nil {
		log.Fatal().Err(err).Msg("leer canales")
	}

	entries, unresolved := buildEntries(*owner, rows, items, platforms, uuid.New().String(), time.Now().UTC())
	log.Info().Int("entries", len(entries)).Int("unresolved", unresolved).Bool("dry_run", *dryRun).Msg("CSV procesado")
	if *dryRun || len(entries) == 0 {
		return
	}

	if err := postgres.NewSaleRepository(pool).CreateBatch(ctx, entries); err != nil {
		log.Fatal().Err(err).Msg("guardar lote")
	}
	log.Info().Str("batch_id", entries[0].BatchID).Int("entries", len(entries)).Msg("histórico importado")
}

// buildEntries convierte las filas en entradas del libro. unresolved cuenta las filas cuyo
// artículo o canal no existe en el catálogo actual.
func buildEntries(ownerID string, rows []row, items []*entity.Item, platforms []*entity.Platform, batchID string, now time.Time) ([]*entity.Sale, int) {
	itemByName := make(map[string]string, len(items))
	for _, it := range items {
		if _, dup := itemByName[it.Name]; !dup {
			itemByName[it.Name] = it.ID
		}
	}
	platformByName := make(map[string]string, len(platforms))
	for _, p := range platforms {
		if _, dup := platformByName[p.Name]; !dup {
			platformByName[p.Name] = p.ID
		}
	}

	unresolved := 0
	out := make([]*entity.Sale, 0, len(rows))
	for _, r := range rows {
		itemID, okItem := itemByName[r.Item]
		platformID, okPlatform := platformByName[r.Platform]
		if !okItem || !okPlatform {
			unresolved++
		}
		saleDate, _ := period.FirstDay(r.Month)
		out = append(out, &entity.Sale{
			ID:            uuid.New().String(),
			BatchID:       batchID,
			OwnerID:       ownerID,
			ItemID:        itemID,
			ItemName:      r.Item,
			VariantType:   r.Variant,
			PlatformID:    platformID,
			PlatformName:  r.Platform,
			Quantity:      r.Quantity,
			BasePrice:     r.BasePrice,
			FeePercentage: r.FeePercentage,
			ShippingFee:   r.ShippingFee,
			TotalAmount:   r.TotalAmount,
			SaleDate:      saleDate,
			Month:         r.Month,
			CreatedAt:     now,
		})
	}
	return out, unresolved
}
