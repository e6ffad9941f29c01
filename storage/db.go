package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/ferreirogomes/fatia/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

// DB representa a conexão com o banco de dados PostgreSQL.
type DB struct {
	*sqlx.DB
}

// NewDB conecta-se ao PostgreSQL e executa as migrações.
func NewDB(dataSourceName string) (*DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("falha ao pingar o banco de dados: %w", err)
	}
	log.Println("Conexão com PostgreSQL estabelecida com sucesso.")

	if err := runMigrations(db.DB); err != nil {
		return nil, fmt.Errorf("falha ao executar migrações: %w", err)
	}

	return &DB{db}, nil
}

// runMigrations executa as migrações usando sql-migrate.
func runMigrations(db *sql.DB) error {
	migrations := &migrate.FileMigrationSource{
		Dir: "./storage/migrations",
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	if n > 0 {
		log.Printf("Aplicadas %d migrações ao banco de dados.", n)
	} else {
		log.Println("Nenhuma migração nova para aplicar.")
	}
	return nil
}

// SaveEnterprise insere ou atualiza um empreendimento.
func (d *DB) SaveEnterprise(e models.Enterprise) error {
	query := `INSERT INTO enterprises (id, name, total_shares, shares_sold, price_per_share, mint_address, created_at)
        VALUES (:id, :name, :total_shares, :shares_sold, :price_per_share, :mint_address, :created_at)
        ON CONFLICT (id) DO UPDATE SET
            shares_sold = EXCLUDED.shares_sold,
            mint_address = EXCLUDED.mint_address`
	if _, err := d.NamedExec(query, e); err != nil {
		return fmt.Errorf("falha ao salvar empreendimento: %w", err)
	}
	return nil
}

// GetEnterprise busca um empreendimento pelo ID. Ausência não é erro.
func (d *DB) GetEnterprise(id string) (models.Enterprise, bool, error) {
	var e models.Enterprise
	err := d.Get(&e, `SELECT * FROM enterprises WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Enterprise{}, false, nil
	}
	if err != nil {
		return models.Enterprise{}, false, fmt.Errorf("falha ao buscar empreendimento: %w", err)
	}
	return e, true, nil
}

// GetEnterpriseByMintAddress busca um empreendimento pelo mint Solana espelhado.
func (d *DB) GetEnterpriseByMintAddress(mintAddress string) (models.Enterprise, bool, error) {
	var e models.Enterprise
	err := d.Get(&e, `SELECT * FROM enterprises WHERE mint_address = $1`, mintAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Enterprise{}, false, nil
	}
	if err != nil {
		return models.Enterprise{}, false, fmt.Errorf("falha ao buscar empreendimento por mint: %w", err)
	}
	return e, true, nil
}

// SaveAsset insere ou atualiza um bem.
func (d *DB) SaveAsset(a models.Asset) error {
	query := `INSERT INTO assets (id, enterprise_id, name, declared_value, total_shares, shares_sold, value_per_share, mint_address, created_at)
        VALUES (:id, :enterprise_id, :name, :declared_value, :total_shares, :shares_sold, :value_per_share, :mint_address, :created_at)
        ON CONFLICT (id) DO UPDATE SET
            shares_sold = EXCLUDED.shares_sold,
            mint_address = EXCLUDED.mint_address`
	if _, err := d.NamedExec(query, a); err != nil {
		return fmt.Errorf("falha ao salvar bem: %w", err)
	}
	return nil
}

// GetAsset faz a busca em dois níveis: o bem precisa existir E pertencer
// ao empreendimento informado.
func (d *DB) GetAsset(enterpriseID, assetID string) (models.Asset, bool, error) {
	var a models.Asset
	err := d.Get(&a, `SELECT * FROM assets WHERE id = $1 AND enterprise_id = $2`, assetID, enterpriseID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Asset{}, false, nil
	}
	if err != nil {
		return models.Asset{}, false, fmt.Errorf("falha ao buscar bem: %w", err)
	}
	return a, true, nil
}

// GetAssetByMintAddress busca um bem pelo mint Solana espelhado.
func (d *DB) GetAssetByMintAddress(mintAddress string) (models.Asset, bool, error) {
	var a models.Asset
	err := d.Get(&a, `SELECT * FROM assets WHERE mint_address = $1`, mintAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Asset{}, false, nil
	}
	if err != nil {
		return models.Asset{}, false, fmt.Errorf("falha ao buscar bem por mint: %w", err)
	}
	return a, true, nil
}

// ListAssetsByEnterprise lista os bens de um empreendimento.
func (d *DB) ListAssetsByEnterprise(enterpriseID string) ([]models.Asset, error) {
	assets := []models.Asset{}
	err := d.Select(&assets, `SELECT * FROM assets WHERE enterprise_id = $1 ORDER BY created_at`, enterpriseID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar bens: %w", err)
	}
	return assets, nil
}

// SaveInvestor insere ou atualiza um investidor.
func (d *DB) SaveInvestor(inv models.Investor) error {
	query := `INSERT INTO investors (id, name, email, solana_pub_key, created_at)
        VALUES (:id, :name, :email, :solana_pub_key, :created_at)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            email = EXCLUDED.email,
            solana_pub_key = EXCLUDED.solana_pub_key`
	if _, err := d.NamedExec(query, inv); err != nil {
		return fmt.Errorf("falha ao salvar investidor: %w", err)
	}
	return nil
}

// GetInvestor busca um investidor pelo ID. Ausência não é erro.
func (d *DB) GetInvestor(id string) (models.Investor, bool, error) {
	var inv models.Investor
	err := d.Get(&inv, `SELECT * FROM investors WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Investor{}, false, nil
	}
	if err != nil {
		return models.Investor{}, false, fmt.Errorf("falha ao buscar investidor: %w", err)
	}
	return inv, true, nil
}

// GetHolding retorna a posição acumulada do investidor na entidade.
// Investidor sem posição registrada vale zero.
func (d *DB) GetHolding(enterpriseID, assetID, investorID string) (int64, error) {
	var shares int64
	err := d.Get(&shares, `SELECT shares FROM holdings WHERE enterprise_id = $1 AND asset_id = $2 AND investor_id = $3`,
		enterpriseID, assetID, investorID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("falha ao buscar posição: %w", err)
	}
	return shares, nil
}

// ListHoldings lista as posições de todos os investidores de uma entidade.
func (d *DB) ListHoldings(enterpriseID, assetID string) ([]models.Holding, error) {
	holdings := []models.Holding{}
	err := d.Select(&holdings, `SELECT * FROM holdings WHERE enterprise_id = $1 AND asset_id = $2`,
		enterpriseID, assetID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar posições: %w", err)
	}
	return holdings, nil
}

// ApplyInvestment aplica o aporte em uma única transação: contador da
// entidade, posição do investidor e histórico andam sempre juntos.
func (d *DB) ApplyInvestment(inv models.Investment) error {
	tx, err := d.Beginx()
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	if inv.AssetID == "" {
		_, err = tx.Exec(`UPDATE enterprises SET shares_sold = shares_sold + $1 WHERE id = $2`,
			inv.Shares, inv.EnterpriseID)
	} else {
		_, err = tx.Exec(`UPDATE assets SET shares_sold = shares_sold + $1 WHERE id = $2 AND enterprise_id = $3`,
			inv.Shares, inv.AssetID, inv.EnterpriseID)
	}
	if err != nil {
		return fmt.Errorf("falha ao atualizar cotas vendidas: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO holdings (enterprise_id, asset_id, investor_id, shares)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (enterprise_id, asset_id, investor_id)
        DO UPDATE SET shares = holdings.shares + EXCLUDED.shares`,
		inv.EnterpriseID, inv.AssetID, inv.InvestorID, inv.Shares)
	if err != nil {
		return fmt.Errorf("falha ao creditar posição do investidor: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO investments (id, enterprise_id, asset_id, investor_id, amount, shares, transaction_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inv.ID, inv.EnterpriseID, inv.AssetID, inv.InvestorID, inv.Amount, inv.Shares, inv.TransactionID, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao gravar histórico de aporte: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("falha ao confirmar aporte: %w", err)
	}
	return nil
}

// ListInvestmentsByEnterprise lista o histórico de aportes do empreendimento,
// incluindo aportes nos bens dele.
func (d *DB) ListInvestmentsByEnterprise(enterpriseID string) ([]models.Investment, error) {
	investments := []models.Investment{}
	err := d.Select(&investments, `SELECT * FROM investments WHERE enterprise_id = $1 ORDER BY created_at`, enterpriseID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar aportes: %w", err)
	}
	return investments, nil
}

// FindUnconfirmedInvestment localiza o aporte mais antigo ainda sem
// transação on-chain associada, para reconciliação pelo listener.
func (d *DB) FindUnconfirmedInvestment(enterpriseID, assetID string, shares int64) (models.Investment, bool, error) {
	var inv models.Investment
	err := d.Get(&inv, `SELECT * FROM investments
        WHERE enterprise_id = $1 AND asset_id = $2 AND shares = $3 AND transaction_id = ''
        ORDER BY created_at LIMIT 1`,
		enterpriseID, assetID, shares)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Investment{}, false, nil
	}
	if err != nil {
		return models.Investment{}, false, fmt.Errorf("falha ao buscar aporte não confirmado: %w", err)
	}
	return inv, true, nil
}

// UpdateInvestmentTransaction associa a transação on-chain a um aporte.
func (d *DB) UpdateInvestmentTransaction(investmentID, transactionID string) error {
	_, err := d.Exec(`UPDATE investments SET transaction_id = $1 WHERE id = $2`, transactionID, investmentID)
	if err != nil {
		return fmt.Errorf("falha ao atualizar transação do aporte: %w", err)
	}
	return nil
}
