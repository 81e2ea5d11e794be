package refine

import "fmt"

const improvePrompt = `Você é um assistente especializado em melhorar transcrições médicas.
Sua tarefa é corrigir e melhorar a seguinte transcrição de uma consulta médica:

Transcrição original:
%s

Por favor:
1. Corrija erros de gramática e ortografia
2. Melhore a pontuação e formatação
3. Organize o texto de forma clara e profissional
4. Mantenha todos os termos médicos e informações importantes
5. Se possível, estruture em seções (ex: Queixa principal, Histórico, Exame físico, etc.)

Retorne apenas o texto melhorado, sem comentários adicionais:`

const defaultSummaryPrompt = `Você é um assistente médico especializado em criar resumos de consultas médicas.
Analise a seguinte transcrição e crie um resumo estruturado e profissional:

Transcrição:
%s

Por favor, crie um resumo seguindo esta estrutura:

## RESUMO DA CONSULTA

**Data:** [Extrair se mencionada ou indicar como não especificada]
**Paciente:** [Nome se mencionado ou "Não especificado"]

### QUEIXA PRINCIPAL
[Motivo principal da consulta]

### HISTÓRICO
[Histórico relevante mencionado]

### EXAME FÍSICO
[Achados do exame físico se mencionados]

### CONDUTA/TRATAMENTO
[Medicações, orientações ou tratamentos prescritos]

### OBSERVAÇÕES IMPORTANTES
[Pontos relevantes adicionais]

### RETORNO
[Orientações sobre retorno se mencionadas]

Mantenha o resumo conciso, profissional e focado nos aspectos médicos mais importantes.`

const customSummaryPrompt = `Você é um assistente médico especializado em criar resumos de consultas médicas.
Analise a seguinte transcrição seguindo as instruções específicas do usuário:

INSTRUÇÕES DO USUÁRIO:
%s

Transcrição:
%s

Mantenha o resumo profissional e focado nos aspectos médicos mais importantes.`

// buildSummaryPrompt uses the caller's instruction verbatim when given and
// the standard structured layout otherwise.
func buildSummaryPrompt(text, instruction string) string {
	if instruction != "" {
		return fmt.Sprintf(customSummaryPrompt, instruction, text)
	}
	return fmt.Sprintf(defaultSummaryPrompt, text)
}
