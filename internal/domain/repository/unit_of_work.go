package repository

// Repos agrupa los repositorios atados a una misma transacción.
// Lo construye el TxRunner de infraestructura y lo recibe el callback de cada caso de uso.
type Repos struct {
	Items            ItemRepository
	ServiceTypes     ServiceTypeRepository
	Technicians      TechnicianRepository
	PartnerCompanies PartnerCompanyRepository
	Users            UserRepository
	Stock            CentralStockRepository
	Balances         TechnicianBalanceRepository
	Ledger           LedgerEntryRepository
	Documents        DocumentRepository
	Equipment        EquipmentRepository
}
