// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

// Package api provides the HTTP surface using the chi router.
//
// Endpoints:
//
//	GET  /               hello
//	GET  /health         liveness probe
//	GET  /metrics        Prometheus metrics
//	POST /api/v1/predict personalized recommendations for a username
//	POST /api/v1/filter  filter and paginate a previously returned ranking
//
// Every response uses the models.APIResponse envelope. The filter
// endpoint is stateless: the caller echoes back the id_score_pairs the
// predict endpoint returned.
package api
