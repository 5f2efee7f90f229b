// Package symbols provides the protocol enum dictionary used to turn
// creature, form, evolution, costume and render-mode names into ids.
//
// The dictionary is an externally versioned YAML (or JSON) document:
//
//	creatures:    {RATTATA: 19}
//	forms:        {RATTATA_ALOLA: 46}
//	evolutions:   {TEMP_EVOLUTION_MEGA: 1}
//	costumes:     {FALL_2019: 7}
//	render_modes: {GIGANTAMAX: 2}
package symbols
