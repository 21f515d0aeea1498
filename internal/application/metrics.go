package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// submissionsTotal заполненные анкеты, отправленные модераторам.
	submissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "admission_bot",
		Subsystem: "dialogue",
		Name:      "submissions_total",
		Help:      "Completed submissions forwarded to moderators",
	})

	// duplicateSubmissions попытки начать диалог при заявке на рассмотрении.
	duplicateSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "admission_bot",
		Subsystem: "dialogue",
		Name:      "duplicate_submissions_total",
		Help:      "Dialogue starts refused because a submission is pending",
	})

	// deliveriesTotal доставка копий заявки модераторам.
	// Labels: status (ok, failed)
	deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admission_bot",
		Subsystem: "fanout",
		Name:      "deliveries_total",
		Help:      "Per-moderator submission deliveries",
	}, []string{"status"})

	// decisionsTotal обработанные решения модераторов.
	// Labels: action (approve, reject), result (ok, already_decided, overridden, issuance_failed)
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admission_bot",
		Subsystem: "decision",
		Name:      "decisions_total",
		Help:      "Moderator decisions by action and result",
	}, []string{"action", "result"})

	// refusedInteractions нажатия, отклонённые до разбора решения.
	// Labels: reason (unauthorized, malformed)
	refusedInteractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admission_bot",
		Subsystem: "decision",
		Name:      "refused_total",
		Help:      "Interactions refused before a decision was taken",
	}, []string{"reason"})
)
