package engine

import "kvk-tracker/internal/domain"

// FieldDeltas is the change of one player's row between two snapshots.
type FieldDeltas struct {
	Power      int64
	T1Kills    int64
	T2Kills    int64
	T3Kills    int64
	T4Kills    int64
	T5Kills    int64
	DeadTroops int64
	KillPoints int64
}

// Delta compares a player's row in the start snapshot (nil when absent) with
// the row in the end snapshot.
//
// Kill, dead and kill-point columns are lifetime counters, so a drop is a data
// anomaly and clamps to zero. Power is signed. Without a start row the
// counters count from zero and the power delta is 0.
func Delta(prev *domain.SnapshotRow, curr domain.SnapshotRow) FieldDeltas {
	if prev == nil {
		return FieldDeltas{
			T1Kills:    clampedDiff(0, curr.T1Kills),
			T2Kills:    clampedDiff(0, curr.T2Kills),
			T3Kills:    clampedDiff(0, curr.T3Kills),
			T4Kills:    clampedDiff(0, curr.T4Kills),
			T5Kills:    clampedDiff(0, curr.T5Kills),
			DeadTroops: clampedDiff(0, curr.DeadTroops),
			KillPoints: clampedDiff(0, curr.KillPoints),
		}
	}

	return FieldDeltas{
		Power:      curr.Power - prev.Power,
		T1Kills:    clampedDiff(prev.T1Kills, curr.T1Kills),
		T2Kills:    clampedDiff(prev.T2Kills, curr.T2Kills),
		T3Kills:    clampedDiff(prev.T3Kills, curr.T3Kills),
		T4Kills:    clampedDiff(prev.T4Kills, curr.T4Kills),
		T5Kills:    clampedDiff(prev.T5Kills, curr.T5Kills),
		DeadTroops: clampedDiff(prev.DeadTroops, curr.DeadTroops),
		KillPoints: clampedDiff(prev.KillPoints, curr.KillPoints),
	}
}

func clampedDiff(prev, curr int64) int64 {
	if curr < prev {
		return 0
	}
	return curr - prev
}
