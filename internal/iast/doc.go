// Package iast solves multicomponent adsorption equilibria with Ideal
// Adsorbed Solution Theory.
//
// Both directions reduce to one scalar equation in the common spreading
// pressure π. Forward mode takes the bulk composition y and total pressure
// and solves
//
//	Σ y_i·P / p_i⁰(π) = 1
//
// while reverse mode takes the adsorbed composition x and solves
//
//	Σ x_i·p_i⁰(π) / P = 1
//
// where p_i⁰ inverts component i's spreading-pressure curve. The root is
// searched in ln π with Brent's method.
package iast
