package configuration

type Configuration struct {
	Dir          string `usage:"primary store directory"`
	Load         string `usage:"JSON lines batch of records to upsert at startup"`
	Reindex      bool   `usage:"rebuild the column indexes from the primary store at startup"`
	ExportString string `usage:"export the string column, sorted, to this store directory"`
	ExportNumber string `usage:"export the number column, sorted, to this store directory"`
	ExportRanked bool   `usage:"key exported cells by rank instead of original key"`
	Serve        bool   `usage:"serve the HTTP API after load and exports"`
	HttpAddr     string `usage:"HTTP address"`
	Sync         bool   `usage:"fsync the journal after every write"`
	Compression  string `usage:"value compression for new writes: none or snappy"`
	LogLevel     string `usage:"log level: debug, info, warn or error"`
	Version      bool   `usage:"show version and exit"`
	ShowBanner   bool   `usage:"show big banner"`
	ShowConfig   bool   `usage:"print config"`
}
