package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE generation_runs (
				id VARCHAR(255) PRIMARY KEY,
				business_id VARCHAR(255) NOT NULL,
				target_count INT NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('running', 'completed', 'failed')),
				request JSONB NOT NULL,
				posts JSONB,
				error TEXT,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_generation_runs_business_id ON generation_runs(business_id);
			CREATE INDEX idx_generation_runs_status ON generation_runs(status);
			CREATE INDEX idx_generation_runs_created_at ON generation_runs(created_at);
		`,
	}
}
