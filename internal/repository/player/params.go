package player

type SetPlayerParams struct {
	PlayerId string
	Snapshot Snapshot
}

type SetSnapshotParams struct {
	PlayerId string
	Snapshot Snapshot
}

type SetConfigParams struct {
	PlayerId string
	Config   Config
}
