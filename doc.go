// SPDX-License-Identifier: MIT

// Package eeio builds environmentally extended input-output (EEIO) models
// and calculates life cycle inventory and impact results from them.
//
// A model couples an economic core, the direct requirements coefficients A
// (commodity × commodity), with a satellite matrix B of elementary flows per
// unit of sector output and an optional characterization matrix C of impact
// factors. For a final demand vector d the results are
//
//	L = (I − A)⁻¹      total requirements
//	s = L·d            scaling vector
//	g = B·s            inventory (LCI)
//	h = C·g            impacts (LCIA)
//
// Every matrix carries data quality indicators (DQI) that are aggregated
// along the same products.
//
// Packages:
//
//	matrix/     dense kernels: products, transposition, pivoting inverse
//	matrix/matio binary matrix format (int32 shape, float64 column-major)
//	keyed/      matrices addressed by row and column keys
//	dqi/        data quality scores, weighted aggregation
//	ref/        sectors, elementary flows, units, locations, compartments
//	sat/        satellite tables: flows × sectors with provenance
//	ia/         characterization factor tables
//	economic/   make/use tables → A (industry technology, scrap adjusted)
//	calc/       demand, scaling, perspectives, top contributions
//	csvio/      csv readers and writers of the table formats
//	model/      loading, matrix set, export, validation
//
// The eeio command (cmd/eeio) wires these together behind coefficients,
// calculate, export and validate subcommands.
package eeio
