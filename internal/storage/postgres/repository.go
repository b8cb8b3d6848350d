package postgres

import "context"

func (p *Postgres) Incidents() *IncidentRepo { return p.Incident }
func (p *Postgres) Stats() *StatsRepo { return p.Stat }

func (p *Postgres) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.Pool.Close()
}
