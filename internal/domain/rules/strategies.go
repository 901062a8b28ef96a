package rules

import "github.com/contaflow/contaflow-api/internal/domain/entity"

// Códigos de catálogo por regime tributário (obrigações mensais e
// declarativas do regime). As listas são fechadas: o catálogo é quem
// diz a recorrência e o dia; aqui só a aplicabilidade.
func regimeCodes(regime string) []string {
	switch regime {
	case entity.RegimeSimples:
		return []string{"DAS", "DEFIS"}
	case entity.RegimePresumido:
		return []string{"DARF_PIS", "DARF_COFINS", "DARF_IRPJ", "DARF_CSLL", "DCTF", "ECF"}
	case entity.RegimeReal:
		return []string{"DARF_PIS", "DARF_COFINS", "DARF_IRPJ", "DARF_CSLL", "DCTF", "EFD_CONTRIBUICOES", "ECF", "ECD"}
	default:
		return nil
	}
}

// Obrigações trabalhistas, independentes de regime.
func laborCodes() []string {
	return []string{"FGTS", "INSS_GPS"}
}

// Declarações anuais fixas, independentes de regime.
func annualCodes() []string {
	return []string{"DIRF", "RAIS"}
}

// comercioStrategy: regras para empresas de comércio (e mistas, que hoje
// seguem comércio). Adiciona ICMS (estadual) às listas comuns.
type comercioStrategy struct{ baseStrategy }

func (comercioStrategy) Kind() string { return "comercio" }

func (comercioStrategy) ApplicableCodes(c *entity.Client) []string {
	codes := regimeCodes(c.TaxRegime)
	codes = append(codes, "ICMS")
	codes = append(codes, laborCodes()...)
	codes = append(codes, annualCodes()...)
	return codes
}

// servicoStrategy: empresas de serviço. ISS (municipal) no lugar do ICMS.
type servicoStrategy struct{ baseStrategy }

func (servicoStrategy) Kind() string { return "servico" }

func (servicoStrategy) ApplicableCodes(c *entity.Client) []string {
	codes := regimeCodes(c.TaxRegime)
	codes = append(codes, "ISS")
	codes = append(codes, laborCodes()...)
	codes = append(codes, annualCodes()...)
	return codes
}

// industriaStrategy: indústria recolhe ICMS e IPI.
type industriaStrategy struct{ baseStrategy }

func (industriaStrategy) Kind() string { return "industria" }

func (industriaStrategy) ApplicableCodes(c *entity.Client) []string {
	codes := regimeCodes(c.TaxRegime)
	codes = append(codes, "ICMS", "IPI")
	codes = append(codes, laborCodes()...)
	codes = append(codes, annualCodes()...)
	return codes
}

// meiStrategy: conjunto mínimo fixo do microempreendedor individual,
// ignorando a categoria declarada da empresa.
type meiStrategy struct{ baseStrategy }

func (meiStrategy) Kind() string { return "mei" }

func (meiStrategy) ApplicableCodes(_ *entity.Client) []string {
	return []string{"DAS_SIMEI", "DASN_SIMEI"}
}
