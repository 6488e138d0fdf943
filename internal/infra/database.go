package infra

import (
	"fmt"

	"caffito/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (seed data, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the model schema plus SQL patches. Also used by the
// integration tests to prepare a throwaway container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.TipoPago{},
		&model.Caja{},
		&model.FlujoCaja{},
		&model.Ingreso{},
		&model.Cliente{},
		&model.GastoCategoria{},
		&model.GastoProveedor{},
		&model.Gasto{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle on its
// own. Each statement uses IF NOT EXISTS / DO NOTHING semantics so re-running
// on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Fixed payment type catalog. IDs are stable and referenced by flujos.
		{"seed tipos_pago catalog", `
INSERT INTO tipos_pago (id, nombre) VALUES
  (1, 'Efectivo'),
  (2, 'Tarjeta Débito'),
  (3, 'Tarjeta Crédito'),
  (4, 'Cuenta Corriente'),
  (5, 'Cuenta Corriente Proveedor')
ON CONFLICT (id) DO NOTHING`},

		// At most one open caja per punto de venta, enforced at the DB level so
		// concurrent openings cannot race past the service-level check.
		{"unique open caja per punto de venta", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_cajas_pdv_en_proceso') THEN
    CREATE UNIQUE INDEX uni_cajas_pdv_en_proceso
        ON cajas (punto_de_venta)
        WHERE en_proceso;
  END IF;
END $$`},

		// Same guarantee per usuario.
		{"unique open caja per usuario", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_cajas_usuario_en_proceso') THEN
    CREATE UNIQUE INDEX uni_cajas_usuario_en_proceso
        ON cajas (usuario_id)
        WHERE en_proceso;
  END IF;
END $$`},

		// Date-bounded aggregation queries behind the summaries.
		{"index ingresos by fecha", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_ingresos_fecha') THEN
    CREATE INDEX idx_ingresos_fecha ON ingresos (fecha);
  END IF;
END $$`},
		{"index gastos by fecha", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_gastos_fecha') THEN
    CREATE INDEX idx_gastos_fecha ON gastos (fecha);
  END IF;
END $$`},

		// Cierre line lookups always go through the owning caja.
		{"index flujos_caja by caja", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_flujos_caja_caja') THEN
    CREATE INDEX idx_flujos_caja_caja ON flujos_caja (caja_id);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
